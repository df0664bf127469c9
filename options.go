package vecpress

import (
	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/codec"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	codecOptions     []codec.Option
}

// Option configures a Compressor.
type Option func(*options)

// WithBackend configures the general-purpose compressor applied to codec
// payloads.
//
// If nil is passed, backend.Default (gzip) is used.
func WithBackend(b backend.Backend) Option {
	return func(o *options) {
		o.codecOptions = append(o.codecOptions, codec.WithBackend(b))
	}
}

// WithComponents sets the number of dimensions kept by the attractor method.
func WithComponents(k int) Option {
	return func(o *options) {
		o.codecOptions = append(o.codecOptions, codec.WithComponents(k))
	}
}

// WithMetricsCollector configures a metrics collector for encode/decode calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecpress.BasicMetricsCollector{}
//	c, _ := vecpress.New("delta", vecpress.WithMetricsCollector(metrics))
//	// ... encode ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
