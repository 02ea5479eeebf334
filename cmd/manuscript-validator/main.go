// Command manuscript-validator checks manuscript projects against editorial
// templates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/collation"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/images"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/markup"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/statistics"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/templates"
	"github.com/custodia-labs/manuscript-validator/internal/adapters/driving/cli"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/core/services"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir, err := file.DefaultConfigDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The template directory is itself a setting.
	settings, err := services.NewSettingsService(configStore, nil).Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	templateStore, err := templates.NewStore(settings.Templates.Dir)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	var ignored driven.IgnoredResultStore
	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		logger.Warn("ignored results unavailable: %v", err)
	} else {
		defer store.Close()
		ignored = store.IgnoredResultStore()
	}

	markupParser := markup.New()
	validator := services.NewValidator(statistics.New(), markupParser, collation.New(), images.New())
	fixer := services.NewFixer(markupParser)

	cli.SetVersion(version)
	cli.SetServices(
		services.NewValidationService(templateStore, validator, fixer, ignored),
		services.NewSettingsService(configStore, templateStore),
	)

	return cli.Execute(ctx)
}
