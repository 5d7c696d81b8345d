package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.OutputStore = (*Store)(nil)

// tempSuffix is appended to a file name while it is being written.
const tempSuffix = ".tmp"

// Store writes output files atomically into a directory.
type Store struct {
	dir string
}

// NewStore creates a store writing into dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: destination directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the destination directory.
func (s *Store) Dir() string {
	return s.dir
}

// Write replaces the file name with content. Readers see either the
// previous file or the complete new one.
func (s *Store) Write(ctx context.Context, name string, content []byte) error {
	if err := domain.ValidateFileName(name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, name), content)
}

// writeAtomic writes to path+".tmp", syncs it and renames it over path.
// The temp file is removed on failure.
func writeAtomic(path string, content []byte) (err error) {
	tmp := path + tempSuffix
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
