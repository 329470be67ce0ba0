package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/domain/ports"
	"github.com/ersonp/travel-tracker/internal/domain/services"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
	"github.com/ersonp/travel-tracker/internal/infrastructure/logging"
	"github.com/ersonp/travel-tracker/internal/infrastructure/relationaldb/postgres"
	"github.com/ersonp/travel-tracker/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	VisitedHandler *handlers.VisitedHandler
	CountryHandler *handlers.CountryHandler
	ImportHandler  *handlers.ImportHandler
	MigrateHandler *handlers.MigrateHandler
	// DB is exposed for health checks only.
	DB ports.RelationalDB
}

type depsOptions struct {
	skipSchema bool
}

// depsOption customizes withDeps.
type depsOption func(*depsOptions)

// skipSchema leaves table creation to the caller, e.g. a SQL script.
func skipSchema() depsOption {
	return func(o *depsOptions) { o.skipSchema = true }
}

// baseDir returns the project directory commands operate on.
func baseDir() (string, error) {
	if globalDir != "" {
		return filepath.Abs(globalDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// loadConfig loads configuration for the project directory.
func loadConfig() (*config.Config, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	resolveSQLitePath(dir, cfg)
	return cfg, nil
}

// resolveSQLitePath anchors a relative sqlite path at the project directory.
func resolveSQLitePath(dir string, cfg *config.Config) {
	path := cfg.Database.SQLitePath
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return
	}
	cfg.Database.SQLitePath = filepath.Join(dir, path)
}

// openDatabase opens the storage backend selected by cfg.Database.Driver.
func openDatabase(cfg *config.Config) (ports.RelationalDB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite repository: %w", err)
		}
		return repo, nil
	case config.DriverPostgres:
		var opts []postgres.Option
		if level, err := logging.ParseLevel(cfg.Log.Level); err == nil && level <= slog.LevelDebug {
			opts = append(opts, postgres.WithQueryLogging())
		}
		repo, err := postgres.NewRepository(cfg.Database, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating postgres repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically. A database that cannot be reached is an
// error here, so startup fails fast.
func withDeps(ctx context.Context, fn func(*Deps) error, opts ...depsOption) (err error) {
	var o depsOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to database %s: %w", cfg.Database.Redacted(), err)
	}

	if !o.skipSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}

	countryService := services.NewCountryService(db)
	visitedService := services.NewVisitedService(db, db)
	migrationService := services.NewMigrationService(db, logger)

	deps := &Deps{
		Config:         cfg,
		Logger:         logger,
		VisitedHandler: handlers.NewVisitedHandler(visitedService, logger),
		CountryHandler: handlers.NewCountryHandler(countryService),
		ImportHandler:  handlers.NewImportHandler(countryService),
		MigrateHandler: handlers.NewMigrateHandler(migrationService),
		DB:             db,
	}

	return fn(deps)
}
