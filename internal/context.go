package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextClientIPKey ctxKey = "clientIP"
	ContextTraceKey    ctxKey = "traceID"
)

// ClientIPFromContext returns the caller address recorded by the transport,
// used for audit records.
func ClientIPFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ContextClientIPKey)
}

func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextClientIPKey, ip)
}

func TraceIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ContextTraceKey)
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ContextTraceKey, traceID)
}

func stringFromContext(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
