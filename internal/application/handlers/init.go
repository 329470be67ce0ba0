package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/travel-tracker/internal/domain/ports"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
)

// OpenFunc opens the database described by cfg.
type OpenFunc func(cfg *config.Config) (ports.RelationalDB, error)

// InitHandler handles project initialization.
type InitHandler struct {
	open OpenFunc
}

// NewInitHandler creates a new init handler. A nil open skips schema creation.
func NewInitHandler(open OpenFunc) *InitHandler {
	return &InitHandler{
		open: open,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath    string
	Driver        string
	SchemaCreated bool
}

// Handle writes the config and creates the schema. An empty driver writes
// the commented default file; otherwise the defaults are written with the
// given driver selected.
func (h *InitHandler) Handle(ctx context.Context, basePath, driver string) (result *InitResult, err error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("travel already initialized in %s", basePath)
	}

	if err := writeConfig(basePath, driver); err != nil {
		return nil, err
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result = &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Driver:     cfg.Database.Driver,
	}
	if h.open == nil {
		return result, nil
	}

	db, err := h.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	result.SchemaCreated = true

	return result, nil
}

func writeConfig(basePath, driver string) error {
	if driver == "" {
		if err := config.WriteDefault(basePath); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
		return nil
	}

	cfg := config.Default()
	cfg.Database.Driver = driver
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Write(basePath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
