// Package metrics records script loads, executions and native module calls
// as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/host/registry"
)

const namespace = "scripthost"

// Collector implements ports.ExecutionObserver on a private registry.
type Collector struct {
	registry    *prometheus.Registry
	loads       *prometheus.CounterVec
	executions  *prometheus.CounterVec
	duration    prometheus.Histogram
	moduleCalls *prometheus.CounterVec
}

var _ ports.ExecutionObserver = (*Collector)(nil)

// NewCollector creates a collector and registers its metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of script loads by outcome",
			},
			[]string{"outcome"},
		),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of entry executions by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Duration of entry executions",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		moduleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "module_calls_total",
				Help:      "Total number of native module calls",
			},
			[]string{"function", "outcome"},
		),
	}
	c.registry.MustRegister(c.loads, c.executions, c.duration, c.moduleCalls)
	return c
}

// Registry exposes the underlying registry, e.g. for promhttp.HandlerFor.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveLoad implements ports.ExecutionObserver.
func (c *Collector) ObserveLoad(outcome string) {
	c.loads.WithLabelValues(outcome).Inc()
}

// ObserveExecution implements ports.ExecutionObserver.
func (c *Collector) ObserveExecution(outcome string, elapsed time.Duration) {
	c.executions.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Middleware counts registry module calls.
func (c *Collector) Middleware() registry.Middleware {
	return func(next ports.NativeFunc) ports.NativeFunc {
		return func(ctx context.Context, args ...any) (any, error) {
			name := "unknown"
			if call, ok := registry.CallFrom(ctx); ok {
				name = call.String()
			}
			res, err := next(ctx, args...)
			outcome := "success"
			if err != nil {
				outcome = "error"
			}
			c.moduleCalls.WithLabelValues(name, outcome).Inc()
			return res, err
		}
	}
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
