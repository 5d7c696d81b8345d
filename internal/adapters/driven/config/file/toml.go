package file

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// tomlFiles decodes the files key of a TOML report. TOML tables do not
// keep key order, so tables are processed in sorted key order; an array
// of {name, values} tables keeps the written order.
func tomlFiles(v any) ([]domain.FileVariant, error) {
	switch files := v.(type) {
	case nil:
		return nil, nil

	case string:
		return []domain.FileVariant{{Name: files}}, nil

	case map[string]any:
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		slices.Sort(names)

		variants := make([]domain.FileVariant, 0, len(names))
		for _, name := range names {
			values, err := tomlValues(files[name])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", name, err)
			}
			variants = append(variants, domain.FileVariant{Name: name, Values: values})
		}
		return variants, nil

	case []any:
		variants := make([]domain.FileVariant, 0, len(files))
		for i, item := range files {
			switch entry := item.(type) {
			case string:
				variants = append(variants, domain.FileVariant{Name: entry})
			case map[string]any:
				name, _ := entry["name"].(string)
				values, err := tomlValues(entry["values"])
				if err != nil {
					return nil, fmt.Errorf("[%d] %q: %w", i, name, err)
				}
				variants = append(variants, domain.FileVariant{Name: name, Values: values})
			default:
				return nil, fmt.Errorf("[%d]: unsupported files entry", i)
			}
		}
		return variants, nil

	default:
		return nil, errors.New("files must be a name, a table or an array")
	}
}

// tomlValues decodes the filter values of one file.
func tomlValues(v any) ([]string, error) {
	switch values := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{values}, nil
	case []any:
		out := make([]string, 0, len(values))
		for _, item := range values {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("filter values must be strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New("filter values must be an array")
	}
}

func decodeTOML(data []byte) (*domain.Settings, error) {
	var cfg fileConfig[reportConf[any]]
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return toSettings(&cfg, tomlFiles)
}
