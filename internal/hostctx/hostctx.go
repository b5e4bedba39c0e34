// Package hostctx carries per-execution values through a context.Context into
// dependency module calls.
package hostctx

import (
	"context"

	"github.com/reglet-dev/scripthost/domain/entities"
)

type notifierKey struct{}

// WithNotifier returns a context carrying the notification sink of the
// current execution.
func WithNotifier(ctx context.Context, notify entities.Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, notify)
}

// Notifier returns the notification sink carried by ctx, or a sink that
// discards messages.
func Notifier(ctx context.Context) entities.Notifier {
	if n, ok := ctx.Value(notifierKey{}).(entities.Notifier); ok && n != nil {
		return n
	}
	return func(string) {}
}
