// Package scripttest provides a test harness for scripts run by scripthost.
package scripttest

import (
	"context"
	"testing"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/host"
)

// TestCase defines one execution of a script's entry method.
type TestCase struct {
	Name     string
	Values   map[string]string
	Images   []*entities.Image
	Validate func(t *testing.T, o *Outcome)
}

// Outcome is what one execution produced.
type Outcome struct {
	Err           error
	Results       map[string]string
	Notifications []string
	Params        *host.Params
}

// Load creates a runner for the script at path with entry bound. The runner
// is closed when the test ends.
func Load(t *testing.T, path, entry string, opts ...host.Option) *host.Runner {
	t.Helper()
	ctx := context.Background()

	opts = append([]host.Option{host.WithOptimize(false)}, opts...)
	r, err := host.NewRunner(ctx, opts...)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	t.Cleanup(func() { _ = r.Close(ctx) })

	if err := r.LoadScript(ctx, path, entry); err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	if !r.Initialized() {
		t.Fatalf("%s not initialized: %v", path, r.LoadError())
	}
	return r
}

// RunScriptTests executes each case against r in order. The runner keeps
// the entry instance between cases, as a native caller would.
func RunScriptTests(t *testing.T, r *host.Runner, tests []TestCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			p := host.NewParams()
			for k, v := range tc.Values {
				p.SetParam(k, v)
			}
			for _, img := range tc.Images {
				if err := p.SetImage(img.Key, img.Width, img.Height, img.Stride, img.Pix); err != nil {
					t.Fatalf("invalid image %s: %v", img.Key, err)
				}
			}

			err := r.Execute(context.Background(), p)
			o := &Outcome{
				Err:           err,
				Results:       p.Results(),
				Notifications: r.Notifications(),
				Params:        p,
			}
			if tc.Validate != nil {
				tc.Validate(t, o)
			}
		})
	}
}

// AssertSuccess asserts the execution returned no error.
func AssertSuccess(t *testing.T, o *Outcome) {
	t.Helper()
	if o.Err != nil {
		t.Errorf("expected success, got %v", o.Err)
	}
}

// AssertFailure asserts the execution failed with the given error type
// ("script", "host_invocation", "coercion", ...).
func AssertFailure(t *testing.T, o *Outcome, errType string) {
	t.Helper()
	if o.Err == nil {
		t.Errorf("expected %s failure, got success", errType)
		return
	}
	if d := errors.ToErrorDetail(o.Err); d.Type != errType {
		t.Errorf("expected %s failure, got %s: %v", errType, d.Type, o.Err)
	}
}

// AssertResult asserts an output was produced with the expected text.
func AssertResult(t *testing.T, o *Outcome, key, expected string) {
	t.Helper()
	val, ok := o.Results[key]
	if !ok {
		t.Errorf("missing result %q", key)
		return
	}
	if val != expected {
		t.Errorf("result %q: expected %q, got %q", key, expected, val)
	}
}

// AssertNotified asserts msg is among the notifications.
func AssertNotified(t *testing.T, o *Outcome, msg string) {
	t.Helper()
	for _, n := range o.Notifications {
		if n == msg {
			return
		}
	}
	t.Errorf("notification %q not sent; got %q", msg, o.Notifications)
}
