package vecpress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/vecpress/codec"
)

// Compressor encodes and decodes vector sequences with one method.
//
// A Compressor holds no per-call state and is safe for concurrent use.
type Compressor struct {
	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
}

// New returns a Compressor for the named method.
func New(method string, optFns ...Option) (*Compressor, error) {
	opts := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c, err := codec.New(method, opts.codecOptions...)
	if err != nil {
		if errors.Is(err, codec.ErrUnknownCodec) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
		}
		return nil, err
	}

	return &Compressor{
		codec:   c,
		logger:  opts.logger.WithMethod(method),
		metrics: opts.metricsCollector,
	}, nil
}

// Methods lists every available method name.
func Methods() []string {
	return codec.Names()
}

// Method returns the method name.
func (c *Compressor) Method() string { return c.codec.Name() }

// Lossless reports whether decoding reproduces the input bit for bit.
func (c *Compressor) Lossless() bool { return c.codec.Lossless() }

// Codec returns the underlying codec.
func (c *Compressor) Codec() codec.Codec { return c.codec }

// Encode compresses vectors. All vectors must share one non-zero dimension.
// An empty sequence encodes to an empty blob.
func (c *Compressor) Encode(ctx context.Context, vectors [][]float32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	start := time.Now()
	blob, err := c.codec.Encode(vectors)
	c.metrics.RecordEncode(c.codec.Name(), RawSize(len(vectors), dim), len(blob), time.Since(start), err)
	c.logger.LogEncode(ctx, c.codec.Name(), len(vectors), dim, len(blob), err)

	return blob, wrapError(c.codec.Name(), "encode", err)
}

// Decode restores the sequence from a blob produced by Encode with the same
// method.
func (c *Compressor) Decode(ctx context.Context, blob []byte) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := c.codec.Decode(blob)
	c.metrics.RecordDecode(c.codec.Name(), time.Since(start), err)
	c.logger.LogDecode(ctx, c.codec.Name(), len(vectors), err)

	return vectors, wrapError(c.codec.Name(), "decode", err)
}

// RawSize returns the uncompressed float32 size of an n×dim sequence.
func RawSize(n, dim int) int {
	return n * dim * 4
}

// Ratio returns the compression ratio of a blob against its raw size.
// An empty blob has ratio 0.
func Ratio(n, dim, blobSize int) float64 {
	if blobSize == 0 {
		return 0
	}
	return float64(RawSize(n, dim)) / float64(blobSize)
}
