package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/ports"
)

// summaryLength bounds the statement preview written to the log.
const summaryLength = 100

// MigrationService runs SQL scripts statement by statement.
type MigrationService struct {
	executor ports.ScriptExecutor
	logger   *slog.Logger
}

// NewMigrationService creates a new MigrationService.
func NewMigrationService(executor ports.ScriptExecutor, logger *slog.Logger) *MigrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationService{
		executor: executor,
		logger:   logger,
	}
}

// Run executes statements in order. A failing statement is logged and
// recorded, and execution continues with the next one. Only context
// cancellation stops the run early.
func (s *MigrationService) Run(ctx context.Context, statements []entities.Statement) (*entities.MigrationResult, error) {
	result := &entities.MigrationResult{}

	for _, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("migration interrupted after %d statements: %w", result.Total(), err)
		}

		if err := s.executor.ExecStatement(ctx, stmt.SQL); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, entities.StatementError{Line: stmt.Line, Err: err})
			s.logger.Warn("statement failed, continuing",
				"line", stmt.Line,
				"statement", stmt.Summary(summaryLength),
				"error", err)
			continue
		}

		result.Executed++
		s.logger.Info("statement ok", "line", stmt.Line, "statement", stmt.Summary(summaryLength))
	}

	return result, nil
}
