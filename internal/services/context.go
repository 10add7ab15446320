package services

import "context"

type contextKey string

const (
	siteKey      contextKey = "site"
	dateKey      contextKey = "date"
	framesKey    contextKey = "frames"
	requestIDKey contextKey = "request_id"
)

// WithRun annotates context with the survey site and date of the run being summarised.
func WithRun(ctx context.Context, site, date string) context.Context {
	if site != "" {
		ctx = context.WithValue(ctx, siteKey, site)
	}
	if date != "" {
		ctx = context.WithValue(ctx, dateKey, date)
	}
	return ctx
}

// RunFromContext returns the site and date if present.
func RunFromContext(ctx context.Context) (site, date string, ok bool) {
	site, _ = ctx.Value(siteKey).(string)
	date, _ = ctx.Value(dateKey).(string)
	return site, date, site != "" || date != ""
}

// WithFrames annotates context with the batch frame range label (e.g. "100-110").
func WithFrames(ctx context.Context, frames string) context.Context {
	if frames == "" {
		return ctx
	}
	return context.WithValue(ctx, framesKey, frames)
}

// FramesFromContext returns the batch frame range label if present.
func FramesFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(framesKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
