package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/vecpress"
	"github.com/hupe1980/vecpress/analysis"
	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
)

// Defaults of the reference experiment.
const (
	DefaultN    = 1000
	DefaultDim  = 768
	DefaultSeed = 42
)

// ProgressReporter receives progress events from a Runner.
// Calls happen on the goroutine running Run.
type ProgressReporter interface {
	OnDatasetStart(name string, methods int)
	OnMethodDone(dataset string, r Result)
	OnDatasetDone(d *DatasetReport)
}

// BlobSink receives every successfully encoded blob.
type BlobSink interface {
	StoreBlob(ctx context.Context, dataset, method string, blob []byte) error
}

type runnerOptions struct {
	methods    []string
	n, dim     int
	seed       int64
	backend    backend.Backend
	components int
	logger     *vecpress.Logger
	metrics    vecpress.MetricsCollector
	progress   ProgressReporter
	sink       BlobSink
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

// WithMethods restricts the run to the named methods. The default is every
// registered method.
func WithMethods(methods ...string) RunnerOption {
	return func(o *runnerOptions) {
		if len(methods) > 0 {
			o.methods = methods
		}
	}
}

// WithSize sets the number of vectors and their dimension per dataset.
func WithSize(n, dim int) RunnerOption {
	return func(o *runnerOptions) {
		o.n, o.dim = n, dim
	}
}

// WithSeed sets the dataset seed. Each dataset derives its own generator
// from it, so results do not depend on which datasets are selected.
func WithSeed(seed int64) RunnerOption {
	return func(o *runnerOptions) {
		o.seed = seed
	}
}

// WithBackend sets the payload compressor of every method.
func WithBackend(b backend.Backend) RunnerOption {
	return func(o *runnerOptions) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithComponents sets the attractor projection size.
func WithComponents(k int) RunnerOption {
	return func(o *runnerOptions) {
		o.components = k
	}
}

// WithLogger sets the logger.
func WithLogger(l *vecpress.Logger) RunnerOption {
	return func(o *runnerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector forwards encode/decode metrics to mc.
func WithMetricsCollector(mc vecpress.MetricsCollector) RunnerOption {
	return func(o *runnerOptions) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) RunnerOption {
	return func(o *runnerOptions) {
		o.progress = p
	}
}

// WithBlobSink stores every encoded blob, e.g. in an Archiver.
func WithBlobSink(s BlobSink) RunnerOption {
	return func(o *runnerOptions) {
		o.sink = s
	}
}

// Runner compares compression methods.
type Runner struct {
	opts        runnerOptions
	compressors []*vecpress.Compressor
}

// NewRunner returns a Runner. It fails if a method is unknown.
func NewRunner(optFns ...RunnerOption) (*Runner, error) {
	opts := runnerOptions{
		methods:    vecpress.Methods(),
		n:          DefaultN,
		dim:        DefaultDim,
		seed:       DefaultSeed,
		backend:    backend.Default,
		components: codec.DefaultComponents,
		logger:     vecpress.NoopLogger(),
		metrics:    vecpress.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.n < 1 || opts.dim < 1 {
		return nil, fmt.Errorf("invalid dataset size %dx%d", opts.n, opts.dim)
	}

	r := &Runner{opts: opts}
	for _, m := range opts.methods {
		c, err := vecpress.New(m,
			vecpress.WithBackend(opts.backend),
			vecpress.WithComponents(opts.components),
			vecpress.WithLogger(opts.logger),
			vecpress.WithMetricsCollector(opts.metrics),
		)
		if err != nil {
			return nil, err
		}
		r.compressors = append(r.compressors, c)
	}
	return r, nil
}

// Methods returns the methods the runner compares, in order.
func (r *Runner) Methods() []string {
	return append([]string(nil), r.opts.methods...)
}

// Run evaluates every method on every dataset. A failing method is recorded
// in its Result and the run continues; only context cancellation and blob
// sink failures abort the run.
func (r *Runner) Run(ctx context.Context, specs []dataset.Spec) (*Report, error) {
	report := &Report{
		StartedAt:   time.Now().UTC(),
		Seed:        r.opts.seed,
		Backend:     r.opts.backend.Name(),
		Environment: CurrentEnvironment(),
	}

	for i, spec := range specs {
		rng := dataset.NewRNG(r.opts.seed + int64(i))
		vectors := spec.Generate(rng, r.opts.n, r.opts.dim)

		d, err := r.runDataset(ctx, spec, vectors)
		if err != nil {
			return nil, err
		}
		report.Datasets = append(report.Datasets, *d)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// RunVectors evaluates every method on a caller-supplied sequence.
func (r *Runner) RunVectors(ctx context.Context, name string, vectors [][]float32) (*DatasetReport, error) {
	return r.runDataset(ctx, dataset.Spec{Name: name, Label: name}, vectors)
}

func (r *Runner) runDataset(ctx context.Context, spec dataset.Spec, vectors [][]float32) (*DatasetReport, error) {
	log := r.opts.logger.With("dataset", spec.Name)

	d := &DatasetReport{
		Name:                  spec.Name,
		Label:                 spec.Label,
		N:                     len(vectors),
		ConsecutiveSimilarity: analysis.ConsecutiveSimilarity(vectors),
	}
	if len(vectors) > 0 {
		d.Dim = len(vectors[0])
	}
	log.InfoContext(ctx, "dataset generated",
		"n", d.N,
		"dimension", d.Dim,
		"consecutive_similarity", d.ConsecutiveSimilarity,
	)

	if r.opts.progress != nil {
		r.opts.progress.OnDatasetStart(spec.Name, len(r.compressors))
	}

	for _, c := range r.compressors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, blob := r.measure(ctx, c, vectors)
		d.Results = append(d.Results, res)

		if res.Failed() {
			log.WarnContext(ctx, "method failed", "method", res.Method, "error", res.Error)
		}
		if r.opts.sink != nil && blob != nil {
			if err := r.opts.sink.StoreBlob(ctx, spec.Name, res.Method, blob); err != nil {
				return nil, fmt.Errorf("store %s/%s: %w", spec.Name, res.Method, err)
			}
		}
		if r.opts.progress != nil {
			r.opts.progress.OnMethodDone(spec.Name, res)
		}
	}

	d.classify()
	log.InfoContext(ctx, "dataset evaluated", "verdict", d.Verdict, "best", d.Best)

	if r.opts.progress != nil {
		r.opts.progress.OnDatasetDone(d)
	}
	return d, nil
}

func (r *Runner) measure(ctx context.Context, c *vecpress.Compressor, vectors [][]float32) (Result, []byte) {
	res := Result{
		Method:   c.Method(),
		Lossless: c.Lossless(),
	}
	if len(vectors) > 0 {
		res.OriginalBytes = vecpress.RawSize(len(vectors), len(vectors[0]))
	}

	start := time.Now()
	blob, err := c.Encode(ctx, vectors)
	res.EncodeTime = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.CompressedBytes = len(blob)
	if len(blob) > 0 {
		res.Ratio = float64(res.OriginalBytes) / float64(len(blob))
	}

	start = time.Now()
	decoded, err := c.Decode(ctx, blob)
	res.DecodeTime = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}

	res.AccuracyLoss = analysis.AccuracyLoss(vectors, decoded)
	res.MaxAbsError = analysis.MaxAbsError(vectors, decoded)
	return res, blob
}
