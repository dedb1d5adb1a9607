package logger

import (
	"context"

	zap "go.uber.org/zap"
)

// A tool call's logger rides on its context so the repository and facade
// log with the same request_id and tool fields.

type scopeKey struct{}

// WithLogger returns a copy of ctx carrying l
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, scopeKey{}, l)
}

// L returns the logger carried by ctx, or the global logger
func L(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(scopeKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

// With returns a copy of ctx whose logger has the extra fields
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, L(ctx).With(fields...))
}

// Inherit puts the logger of from onto ctx. Deadline and cancellation stay ctx's.
func Inherit(ctx, from context.Context) context.Context {
	return WithLogger(ctx, L(from))
}

// ToolScope tags the logger with the tool being run and its request id
func ToolScope(ctx context.Context, tool, requestID string) context.Context {
	return With(ctx,
		zap.String("request_id", requestID),
		zap.String("tool", tool),
	)
}
