package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/config"
	"github.com/alnah/go-journal/internal/hints"
	"github.com/alnah/go-journal/internal/logger"
)

// resolveConfig builds the effective configuration:
// flags > JOURNAL_* env vars > config file > defaults.
// The result is validated.
func resolveConfig(common commonFlags, conv converterFlags, env *Environment) (*config.Config, error) {
	ec := loadEnvConfig(env.Getenv, env.Stderr)
	warnUnknownEnvVars(env.Environ(), env.Stderr)

	name := common.config
	if name == "" {
		name = ec.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(ec, cfg)
	if err := applyConverterFlags(conv, cfg); err != nil {
		return nil, err
	}
	if common.verbose {
		cfg.Log.Mode = "development"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyConverterFlags overlays explicitly set converter flags onto cfg.
func applyConverterFlags(f converterFlags, cfg *config.Config) error {
	setString(&cfg.Converter.Backend, f.backend)
	setString(&cfg.Converter.Command, f.command)
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: --timeout %q must be a positive duration", ErrInvalidFlags, f.timeout)
		}
		cfg.Converter.Timeout = config.Duration(d)
	}
	if f.workers < 0 {
		return fmt.Errorf("%w: --workers must be >= 0, got %d", ErrInvalidFlags, f.workers)
	}
	if f.workers > 0 {
		cfg.Converter.Workers = f.workers
	}
	return nil
}

// newExporter creates the exporter described by cfg.
func newExporter(cfg *config.Config, env *Environment, log *logger.Logger) (*journal.Exporter, error) {
	return journal.NewExporter(
		journal.WithBackend(journal.Backend(cfg.Converter.Backend)),
		journal.WithConverterCommand(cfg.Converter.Command),
		journal.WithTimeout(cfg.Converter.Timeout.Std()),
		journal.WithWorkers(cfg.Converter.Workers),
		journal.WithTempDir(cfg.Export.TempDir),
		journal.WithKeepFiles(cfg.Export.KeepFiles),
		journal.WithAssetPath(cfg.Assets.BasePath),
		journal.WithRunner(env.commandRunner()),
		journal.WithLogger(log),
	)
}

// converterHint returns advice for a fixed-layout export failure under cfg.
func converterHint(err error, cfg *config.Config, getenv func(string) string) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case cfg.Converter.Backend == string(journal.BackendChrome):
		return hints.ForBrowserConnect(getenv)
	default:
		return hints.ForConverterUnavailable(cfg.Converter.Command)
	}
}
