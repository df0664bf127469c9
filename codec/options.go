package codec

import "github.com/hupe1980/vecpress/backend"

const (
	// DefaultComponents is the number of dimensions the attractor codec keeps.
	DefaultComponents = 10
	// MaxComponents caps the attractor projection.
	MaxComponents = 50
)

type options struct {
	backend    backend.Backend
	components int
}

// Option configures a codec.
type Option func(*options)

// WithBackend sets the general-purpose compressor applied to payloads.
//
// If nil is passed, backend.Default is used. The entropy-coded variant ignores
// this option.
func WithBackend(b backend.Backend) Option {
	return func(o *options) {
		if b == nil {
			b = backend.Default
		}
		o.backend = b
	}
}

// WithComponents sets how many top-variance dimensions the attractor codec
// retains. Values are clamped to [1, MaxComponents].
func WithComponents(k int) Option {
	return func(o *options) {
		o.components = k
	}
}

func applyOptions(opts []Option) options {
	o := options{
		backend:    backend.Default,
		components: DefaultComponents,
	}
	for _, fn := range opts {
		fn(&o)
	}
	o.components = max(1, min(o.components, MaxComponents))
	return o
}
