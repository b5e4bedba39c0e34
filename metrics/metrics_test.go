package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/host/registry"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()

	c.ObserveLoad("success")
	c.ObserveLoad("bind")
	c.ObserveExecution("success", 10*time.Millisecond)
	c.ObserveExecution("success", 20*time.Millisecond)
	c.ObserveExecution("script", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("bind")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.executions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.executions.WithLabelValues("script")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))

	expected := `
# HELP scripthost_loads_total Total number of script loads by outcome
# TYPE scripthost_loads_total counter
scripthost_loads_total{outcome="bind"} 1
scripthost_loads_total{outcome="success"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c.loads, strings.NewReader(expected)))
}

func TestCollector_Middleware(t *testing.T) {
	c := NewCollector()

	reg, err := registry.New(
		registry.WithMiddleware(c.Middleware()),
		registry.WithModule("imaging", map[string]ports.NativeFunc{
			"ok":   func(context.Context, ...any) (any, error) { return 1, nil },
			"fail": func(context.Context, ...any) (any, error) { return nil, errors.New("boom") },
		}),
	)
	require.NoError(t, err)

	mod, err := reg.Resolve(context.Background(), "imaging.wasm")
	require.NoError(t, err)

	_, err = mod.Call(context.Background(), "ok")
	require.NoError(t, err)
	_, err = mod.Call(context.Background(), "fail")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.moduleCalls.WithLabelValues("imaging.ok", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.moduleCalls.WithLabelValues("imaging.fail", "error")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.ObserveExecution("success", time.Millisecond)

	path := filepath.Join(t.TempDir(), "scripthost.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `scripthost_executions_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "scripthost_execution_duration_seconds_count 1")

	err = c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
