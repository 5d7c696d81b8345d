package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
)

// mockLoader returns fixed settings.
type mockLoader struct {
	settings *domain.Settings
	err      error
	path     string
}

func (m *mockLoader) Load(path string) (*domain.Settings, error) {
	m.path = path
	return m.settings, m.err
}

// mockRunner records the options of the last run.
type mockRunner struct {
	summary *domain.RunSummary
	err     error
	opts    driving.RunOptions
	calls   int
}

func (m *mockRunner) Run(_ context.Context, opts driving.RunOptions) (*domain.RunSummary, error) {
	m.calls++
	m.opts = opts
	return m.summary, m.err
}

// mockHistory returns fixed runs.
type mockHistory struct {
	runs  []domain.RunSummary
	err   error
	limit int
}

func (m *mockHistory) Recent(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.limit = limit
	return m.runs, m.err
}

// withServices installs a loader and an app factory returning app for one test.
func withServices(t *testing.T, settings *domain.Settings, app *App) *mockLoader {
	t.Helper()
	oldLoader, oldFactory := settingsLoader, appFactory
	loader := &mockLoader{settings: settings}
	settingsLoader = loader
	appFactory = func(*domain.Settings, driven.ProgressObserver) (*App, error) {
		return app, nil
	}
	t.Cleanup(func() {
		settingsLoader, appFactory = oldLoader, oldFactory
	})
	return loader
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag values persist between executions of the package-level commands.
	runReportsFilter, runFilesFilter, runNoProgress = nil, nil, false
	historyLimit = 10
	configPath = "config.yml"
	verbose = false
	for _, name := range []string{"report", "file", "no-progress"} {
		runCmd.Flags().Lookup(name).Changed = false
	}
	historyCmd.Flags().Lookup("limit").Changed = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func testSettings() *domain.Settings {
	return &domain.Settings{
		APIKey:   "key",
		DestPath: "/srv/lists",
		Reports: []domain.ReportDefinition{
			{
				Path:     "/shared/Library/Reports/Missing",
				Variable: `"Location"."Location Code"`,
				SortBy:   domain.FieldCallCode,
				Format:   domain.MustParseTemplate("{callcode}\t{title}"),
				Columns: domain.BindColumns([]string{
					domain.FieldTitle, domain.FieldCallCode, domain.FieldBarcode, domain.FieldProcessType,
				}),
				Files: []domain.FileVariant{
					{Name: "all.txt"},
					{Name: "main.txt", Values: []string{"MAIN", "STACK"}},
				},
			},
		},
	}
}
