// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"log/slog"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/services"
)

// User-facing messages for failed mutations.
const (
	MsgCountryNotFound = "Country name does not exist, try again."
	MsgAlreadyAdded    = "Country has already been added, try again."
	MsgAddFailed       = "Failed to add country."
	MsgNotInVisited    = "That country is not in your visited list."
	MsgRemoveFailed    = "Failed to remove the country, try again."
)

// MutationResult describes the outcome of an add or remove request.
type MutationResult struct {
	Outcome entities.Outcome
	// Message is empty on success.
	Message string
	// Failed is set when storage, not user input, caused the failure.
	Failed bool
}

// OK reports whether the mutation succeeded.
func (r MutationResult) OK() bool {
	return r.Outcome.Succeeded()
}

// VisitedHandler handles listing and mutating the visited set.
type VisitedHandler struct {
	service *services.VisitedService
	logger  *slog.Logger
}

// NewVisitedHandler creates a new visited handler.
func NewVisitedHandler(service *services.VisitedService, logger *slog.Logger) *VisitedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitedHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList returns the visited codes.
func (h *VisitedHandler) HandleList(ctx context.Context) ([]string, error) {
	return h.service.List(ctx)
}

// HandleAdd marks the named country as visited.
func (h *VisitedHandler) HandleAdd(ctx context.Context, name string) MutationResult {
	outcome, err := h.service.Add(ctx, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "add visited country failed", "country", name, "error", err)
		return MutationResult{Message: MsgAddFailed, Failed: true}
	}

	result := MutationResult{Outcome: outcome}
	switch outcome {
	case entities.OutcomeNotFound:
		result.Message = MsgCountryNotFound
	case entities.OutcomeDuplicate:
		result.Message = MsgAlreadyAdded
	}
	return result
}

// HandleRemove removes the named country from the visited set.
func (h *VisitedHandler) HandleRemove(ctx context.Context, name string) MutationResult {
	outcome, err := h.service.Remove(ctx, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "remove visited country failed", "country", name, "error", err)
		return MutationResult{Message: MsgRemoveFailed, Failed: true}
	}

	result := MutationResult{Outcome: outcome}
	switch outcome {
	case entities.OutcomeNotFound:
		result.Message = MsgCountryNotFound
	case entities.OutcomeNotInVisited:
		result.Message = MsgNotInVisited
	}
	return result
}
