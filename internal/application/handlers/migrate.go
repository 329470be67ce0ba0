package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/services"
	"github.com/ersonp/travel-tracker/internal/infrastructure/parsers"
)

// MigrateHandler loads a SQL script into the database.
type MigrateHandler struct {
	service *services.MigrationService
	parser  *parsers.SQLScriptParser
}

// NewMigrateHandler creates a new migrate handler.
func NewMigrateHandler(service *services.MigrationService) *MigrateHandler {
	return &MigrateHandler{
		service: service,
		parser:  &parsers.SQLScriptParser{},
	}
}

// Handle splits the script at filePath and runs every statement.
func (h *MigrateHandler) Handle(ctx context.Context, filePath string) (*entities.MigrationResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer file.Close()

	statements, err := h.parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	return h.service.Run(ctx, statements)
}
