package logging

import (
	"context"
	"log/slog"

	"flightsummary/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSite is the standardized structured logging key for the survey site code.
	FieldSite = "site"
	// FieldDate is the standardized structured logging key for the survey date.
	FieldDate = "date"
	// FieldFrames is the standardized structured logging key for a batch frame range.
	FieldFrames = "frames"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies error and warning lines.
	FieldEventType = "event_type"
	// FieldErrorHint carries a next step for the operator.
	FieldErrorHint = "error_hint"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if site, date, ok := services.RunFromContext(ctx); ok {
		if site != "" {
			fields = append(fields, slog.String(FieldSite, site))
		}
		if date != "" {
			fields = append(fields, slog.String(FieldDate, date))
		}
	}
	if frames, ok := services.FramesFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFrames, frames))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, field := range fields {
		args[i] = field
	}
	return logger.With(args...)
}
