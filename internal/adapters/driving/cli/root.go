package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
	"github.com/custodia-labs/almalister/internal/logger"
)

// App bundles the services the commands use.
type App struct {
	Runner  driving.ReportRunner
	History driving.RunHistory

	// Close releases resources such as the history database. May be nil.
	Close func() error
}

// AppFactory builds the services for loaded settings.
// observer receives fetch progress and may be nil.
type AppFactory func(settings *domain.Settings, observer driven.ProgressObserver) (*App, error)

var (
	version = "dev"

	configPath string
	verbose    bool

	settingsLoader driving.SettingsLoader
	appFactory     AppFactory
)

var rootCmd = &cobra.Command{
	Use:   "almalister",
	Short: "Generate shelf lists from Alma analytics reports",
	Long: `almalister fetches analytics reports from Alma, writes one sorted text
file per configured file variant and keeps per category statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml",
		"configuration file (.yml, .yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsLoader sets the loader used to read the configuration file.
func SetSettingsLoader(l driving.SettingsLoader) {
	settingsLoader = l
}

// SetAppFactory sets the factory used to build services.
func SetAppFactory(f AppFactory) {
	appFactory = f
}

// Execute runs the root command. ctx is passed to every command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings reads the configuration named by --config.
func loadSettings() (*domain.Settings, error) {
	if settingsLoader == nil {
		return nil, errors.New("settings loader not configured")
	}
	return settingsLoader.Load(configPath)
}

// openApp loads settings and builds the services.
func openApp(observer driven.ProgressObserver) (*domain.Settings, *App, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	if appFactory == nil {
		return nil, nil, errors.New("services not configured")
	}
	app, err := appFactory(settings, observer)
	if err != nil {
		return nil, nil, err
	}
	return settings, app, nil
}

// closeApp releases app resources, logging any failure.
func closeApp(app *App) {
	if app == nil || app.Close == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("Failed to close: %v", err)
	}
}
