// Package logger carries a *slog.Logger through a context.Context.
package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

func Set(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Get returns the context's logger, or slog.Default() if there isn't one.
func Get(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// With returns a child context whose logger carries args.
func With(ctx context.Context, args ...any) context.Context {
	return Set(ctx, Get(ctx).With(args...))
}
