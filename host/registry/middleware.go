package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/scripthost/domain/ports"
)

// Middleware wraps a NativeFunc to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first).
type Middleware func(next ports.NativeFunc) ports.NativeFunc

// Call identifies the module function being invoked.
type Call struct {
	Module   string
	Function string
}

func (c Call) String() string {
	return c.Module + "." + c.Function
}

type callKey struct{}

func withCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the call being invoked, when ctx belongs to a module call.
func CallFrom(ctx context.Context) (Call, bool) {
	c, ok := ctx.Value(callKey{}).(Call)
	return c, ok
}

// PanicRecoveryMiddleware turns a panic in a module function into an error,
// which the script sees as an exception.
func PanicRecoveryMiddleware() Middleware {
	return func(next ports.NativeFunc) ports.NativeFunc {
		return func(ctx context.Context, args ...any) (res any, err error) {
			defer func() {
				if r := recover(); r != nil {
					name := "unknown"
					if c, ok := CallFrom(ctx); ok {
						name = c.String()
					}
					res, err = nil, fmt.Errorf("panic in %s: %v", name, r)
				}
			}()
			return next(ctx, args...)
		}
	}
}

// LoggingMiddleware logs every module call at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ports.NativeFunc) ports.NativeFunc {
		return func(ctx context.Context, args ...any) (any, error) {
			name := "unknown"
			if c, ok := CallFrom(ctx); ok {
				name = c.String()
			}
			start := time.Now()
			res, err := next(ctx, args...)
			if err != nil {
				logger.DebugContext(ctx, "module call failed", "function", name, "error", err, "elapsed", time.Since(start))
			} else {
				logger.DebugContext(ctx, "module call completed", "function", name, "args", len(args), "elapsed", time.Since(start))
			}
			return res, err
		}
	}
}
