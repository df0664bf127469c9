// Package vecpress compresses ordered sequences of float32 vectors by
// exploiting the correlation between consecutive vectors.
//
// Embedding streams, sensor trajectories and model activations rarely jump:
// each vector is close to the one before it. vecpress stores an anchor vector
// and encodes the sequence as successive differences, optionally quantized,
// entropy coded or projected onto the few dimensions that actually move.
//
// # Quick Start
//
//	c, _ := vecpress.New("delta")
//	blob, _ := c.Encode(ctx, vectors)
//	restored, _ := c.Decode(ctx, blob)
//
// # Methods
//
// Lossless:
//
//	delta        anchor + float32 deltas through the backend
//	delta-rle    delta with runs of identical deltas collapsed
//	gzip, zstd, lz4  raw float32 payload baselines
//
// Lossy:
//
//	polar-delta  magnitude + hyperspherical angle deltas (16-bit angles)
//	delta-ans    int8 deltas, rANS entropy coded, max error 1/254 per element
//	delta-int8   int8 deltas scaled by the largest delta
//	attractor    deltas of the top-variance dimensions only
//	int8, sq8    scalar quantization baselines
//
// Every blob is self-describing apart from the method: it starts with the
// vector count and dimension (little-endian uint32) and decodes without any
// side information. Decoding a damaged blob returns an error matching
// ErrMalformedBlob rather than panicking.
//
// # Backends
//
// Methods that carry a payload compress it with gzip by default. Use
// WithBackend to switch to zstd or lz4:
//
//	b, _ := backend.ByName("zstd")
//	c, _ := vecpress.New("delta", vecpress.WithBackend(b))
//
// # Observability
//
//	metrics := &vecpress.BasicMetricsCollector{}
//	c, _ := vecpress.New("delta-ans",
//	    vecpress.WithLogger(vecpress.NewJSONLogger(slog.LevelDebug)),
//	    vecpress.WithMetricsCollector(metrics),
//	)
//
// The vecbench command (cmd/vecbench) compares every method on synthetic
// datasets and analyses their delta distributions.
package vecpress
