// Command almalister generates shelf lists from Alma analytics reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/almalister/internal/adapters/driven/config/file"
	"github.com/custodia-labs/almalister/internal/adapters/driven/output"
	"github.com/custodia-labs/almalister/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/almalister/internal/adapters/driving/cli"
	"github.com/custodia-labs/almalister/internal/connectors/alma"
	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/core/services"
	"github.com/custodia-labs/almalister/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetSettingsLoader(file.NewLoader())
	cli.SetAppFactory(newApp)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		logger.Error("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// newApp wires the adapters and services for loaded settings.
func newApp(settings *domain.Settings, observer driven.ProgressObserver) (*cli.App, error) {
	client, err := alma.NewClient(settings.Endpoint, settings.APIKey, settings.HTTP)
	if err != nil {
		return nil, fmt.Errorf("alma client: %w", err)
	}

	store, err := output.NewStore(settings.DestPath)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	stats := output.NewStatsRecorder(settings.DestPath, settings.StatsFile)

	app := &cli.App{}

	var history driven.RunHistoryStore
	if settings.HistoryDB != "" {
		db, err := sqlite.NewStore(settings.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("history database: %w", err)
		}
		history = db.RunHistoryStore()
		app.Close = db.Close
		logger.Debug("Run history: %s", db.Path())
	}

	app.Runner = services.NewReportRunner(
		settings,
		alma.NewFetcher(client),
		alma.NewFilterBuilder(),
		store,
		stats,
		history,
		observer,
	)
	app.History = services.NewRunHistoryService(history)
	return app, nil
}
