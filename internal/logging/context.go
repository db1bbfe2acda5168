package logging

import (
	"context"
	"log/slog"

	"mediasort/internal/services"
)

// Standard structured logging keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldEntity    = "entity"
	FieldStage     = "stage"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint is the suggested next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is what the warning means for the run's output.
	FieldImpact = "impact"
)

// WithContext returns logger tagged with the run id, entity, and stage carried
// by ctx. Keys absent from ctx are omitted.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var args []any
	if id, ok := services.RunIDFromContext(ctx); ok {
		args = append(args, slog.String(FieldRunID, id))
	}
	if entity, ok := services.EntityFromContext(ctx); ok {
		args = append(args, slog.String(FieldEntity, entity))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		args = append(args, slog.String(FieldStage, stage))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
