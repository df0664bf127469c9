package bench

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hupe1980/vecpress"
	"github.com/hupe1980/vecpress/blobstore"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpecs(t *testing.T, names ...string) []dataset.Spec {
	t.Helper()
	specs := make([]dataset.Spec, 0, len(names))
	for _, n := range names {
		s, err := dataset.ByName(n)
		require.NoError(t, err)
		specs = append(specs, s)
	}
	return specs
}

var testMethods = []string{codec.NameGzip, codec.NameDelta, codec.NameDeltaRLE, codec.NameDeltaANS}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		ratio      float64
		want       Verdict
	}{
		{"HighSimilarityHighRatio", 0.95, 12, Validated},
		{"HighSimilarityAtThresholds", 0.90, 8, Validated},
		{"HighSimilarityLowRatio", 0.99, 1.1, Refuted},
		{"LowSimilarityLowRatio", 0.5, 1.2, ControlCorrect},
		{"LowSimilarityHighRatio", 0.5, 3, BetterThanExpected},
		{"LowSimilarityAtControl", 0.89, 2, BetterThanExpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.similarity, tt.ratio))
		})
	}
}

func TestBestMethod(t *testing.T) {
	results := []Result{
		{Method: "a", Lossless: true, Ratio: 2},
		{Method: "b", Lossless: false, Ratio: 9},
		{Method: "c", Lossless: true, Ratio: 4},
		{Method: "d", Lossless: true, Ratio: 40, Error: "boom"},
		{Method: "e", Lossless: true, Ratio: 4},
	}

	assert.Equal(t, "b", BestMethod(results, false))
	assert.Equal(t, "c", BestMethod(results, true))
	assert.Empty(t, BestMethod(nil, false))
}

func TestNewRunner(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)
	assert.Equal(t, vecpress.Methods(), r.Methods())

	_, err = NewRunner(WithMethods("nope"))
	require.ErrorIs(t, err, vecpress.ErrUnknownMethod)

	_, err = NewRunner(WithSize(0, 10))
	require.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	r, err := NewRunner(WithMethods(testMethods...), WithSize(60, 16), WithSeed(1))
	require.NoError(t, err)

	report, err := r.Run(ctx, testSpecs(t, "linear", "similar"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.Seed)
	assert.Equal(t, "gzip", report.Backend)
	assert.Equal(t, runtime.GOOS, report.Environment.GOOS)
	require.Len(t, report.Datasets, 2)

	for _, d := range report.Datasets {
		assert.Equal(t, 60, d.N)
		assert.Equal(t, 16, d.Dim)
		require.Len(t, d.Results, len(testMethods))

		for i, res := range d.Results {
			assert.Equal(t, testMethods[i], res.Method)
			assert.False(t, res.Failed(), res.Error)
			assert.Equal(t, 60*16*4, res.OriginalBytes)
			assert.Greater(t, res.CompressedBytes, 0)
			assert.InDelta(t, float64(res.OriginalBytes)/float64(res.CompressedBytes), res.Ratio, 1e-12)
			if res.Lossless {
				assert.Zero(t, res.AccuracyLoss, res.Method)
				assert.Zero(t, res.MaxAbsError, res.Method)
			}
		}

		delta, ok := d.Result(codec.NameDelta)
		require.True(t, ok)
		assert.Equal(t, Classify(d.ConsecutiveSimilarity, delta.Ratio), d.Verdict)
		assert.Equal(t, BestMethod(d.Results, false), d.Best)
		assert.NotEmpty(t, d.BestLossless)
	}

	linear := report.Datasets[0]
	assert.InDelta(t, 1.0, linear.ConsecutiveSimilarity, 1e-6)
	rle, _ := linear.Result(codec.NameDeltaRLE)
	raw, _ := linear.Result(codec.NameGzip)
	assert.Greater(t, rle.Ratio, raw.Ratio)
}

func TestRunner_Deterministic(t *testing.T) {
	ctx := context.Background()
	specs := testSpecs(t, "drift")

	run := func() *Report {
		r, err := NewRunner(WithMethods(testMethods...), WithSize(40, 8), WithSeed(9))
		require.NoError(t, err)
		report, err := r.Run(ctx, specs)
		require.NoError(t, err)
		return report
	}

	a, b := run(), run()
	for i := range a.Datasets[0].Results {
		assert.Equal(t, a.Datasets[0].Results[i].CompressedBytes, b.Datasets[0].Results[i].CompressedBytes)
	}
}

func TestRunner_FailingMethodIsRecorded(t *testing.T) {
	r, err := NewRunner(WithMethods(testMethods...))
	require.NoError(t, err)

	d, err := r.RunVectors(context.Background(), "empty-dim", [][]float32{{}, {}})
	require.NoError(t, err)

	require.Len(t, d.Results, len(testMethods))
	for _, res := range d.Results {
		assert.True(t, res.Failed())
		assert.Contains(t, res.Error, "dimension")
	}
	assert.Equal(t, Inconclusive, d.Verdict)
	assert.Empty(t, d.Best)
}

func TestRunner_Canceled(t *testing.T) {
	r, err := NewRunner(WithMethods(codec.NameDelta), WithSize(10, 4))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx, testSpecs(t, "linear"))
	require.ErrorIs(t, err, context.Canceled)
}

type recordingProgress struct {
	started []string
	done    int
	methods int
}

func (p *recordingProgress) OnDatasetStart(name string, methods int) {
	p.started = append(p.started, name)
	p.methods = methods
}
func (p *recordingProgress) OnMethodDone(string, Result)   { p.done++ }
func (p *recordingProgress) OnDatasetDone(*DatasetReport) {}

func TestRunner_ProgressAndArchive(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	archiver := NewArchiver(store, "bench", "run-1", true)
	progress := &recordingProgress{}

	r, err := NewRunner(
		WithMethods(testMethods...),
		WithSize(30, 8),
		WithProgress(progress),
		WithBlobSink(archiver),
	)
	require.NoError(t, err)

	report, err := r.Run(ctx, testSpecs(t, "smoothing", "clustered"))
	require.NoError(t, err)

	assert.Equal(t, []string{"smoothing", "clustered"}, progress.started)
	assert.Equal(t, len(testMethods), progress.methods)
	assert.Equal(t, 2*len(testMethods), progress.done)

	names, err := store.List(ctx, "bench/run-1/")
	require.NoError(t, err)
	assert.Len(t, names, 2*len(testMethods))
	assert.Contains(t, names, archiver.BlobName("smoothing", codec.NameDelta))

	// Archived blobs decode back to the dataset.
	blob, err := blobstore.ReadAll(ctx, store, archiver.BlobName("smoothing", codec.NameDelta))
	require.NoError(t, err)
	c, err := vecpress.New(codec.NameDelta)
	require.NoError(t, err)
	decoded, err := c.Decode(ctx, blob)
	require.NoError(t, err)
	assert.Len(t, decoded, 30)

	name, err := archiver.ArchiveReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, "bench/run-1/report.json", name)

	loaded, err := LoadReport(ctx, store, name)
	require.NoError(t, err)
	require.Len(t, loaded.Datasets, 2)
	assert.Equal(t, report.Datasets[1].Name, loaded.Datasets[1].Name)
	assert.Equal(t, report.Datasets[1].Verdict, loaded.Datasets[1].Verdict)
	assert.Equal(t, report.Datasets[1].Results[2].CompressedBytes, loaded.Datasets[1].Results[2].CompressedBytes)
	assert.Equal(t, report.Datasets[1].Results[2].EncodeTime, loaded.Datasets[1].Results[2].EncodeTime)
}

func TestArchiver_WithoutBlobs(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	a := NewArchiver(store, "", "run", false)

	require.NoError(t, a.StoreBlob(ctx, "d", "m", []byte{1}))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, "run/d/m.bin", a.BlobName("d", "m"))
}

func TestPruneRuns(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	for _, run := range []string{"20260101T000000Z", "20260102T000000Z", "20260103T000000Z"} {
		a := NewArchiver(store, "runs", run, true)
		require.NoError(t, a.StoreBlob(ctx, "similar", codec.NameDelta, []byte{1}))
		_, err := a.ArchiveReport(ctx, &Report{})
		require.NoError(t, err)
	}
	// Shares a name prefix with a run but is not one.
	require.NoError(t, store.Put(ctx, "runs/20260101T000000Z-notes.txt", []byte("x")))

	runs, err := Runs(ctx, store, "runs")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/20260101T000000Z", "runs/20260102T000000Z", "runs/20260103T000000Z"}, runs)

	removed, err := PruneRuns(ctx, store, "runs", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/20260101T000000Z", "runs/20260102T000000Z"}, removed)

	names, err := store.List(ctx, "runs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"runs/20260101T000000Z-notes.txt",
		"runs/20260103T000000Z/report.json",
		"runs/20260103T000000Z/similar/delta.bin",
	}, names)

	removed, err = PruneRuns(ctx, store, "runs", 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestInspectBlobs(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	a := NewArchiver(store, "runs", "r1", true)

	c, err := vecpress.New(codec.NameDelta)
	require.NoError(t, err)
	rng := dataset.NewRNG(1)
	blob, err := c.Encode(ctx, rng.TemporalSmoothing(20, 6, 0.9))
	require.NoError(t, err)
	require.NoError(t, a.StoreBlob(ctx, "smoothing", codec.NameDelta, blob))
	_, err = a.ArchiveReport(ctx, &Report{})
	require.NoError(t, err)

	infos, err := InspectBlobs(ctx, store, a.Prefix())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, a.BlobName("smoothing", codec.NameDelta), infos[0].Name)
	assert.Equal(t, int64(len(blob)), infos[0].Size)
	assert.Equal(t, uint32(20), infos[0].Header.N)
	assert.Equal(t, uint32(6), infos[0].Header.Dim)

	require.NoError(t, store.Put(ctx, "runs/r1/short/delta.bin", []byte{1, 0, 0}))
	_, err = InspectBlobs(ctx, store, a.Prefix())
	assert.ErrorIs(t, err, codec.ErrMalformedBlob)
}

func TestPrometheusCollector(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheusCollector()

	r, err := NewRunner(WithMethods(codec.NameDelta, codec.NameDeltaANS), WithSize(20, 8), WithMetricsCollector(p))
	require.NoError(t, err)

	report, err := r.Run(ctx, testSpecs(t, "linear"))
	require.NoError(t, err)
	p.ObserveReport(report)

	res, _ := report.Datasets[0].Result(codec.NameDelta)
	assert.InDelta(t, res.Ratio, promtestutil.ToFloat64(p.ratio.WithLabelValues("linear", codec.NameDelta)), 1e-12)
	assert.InDelta(t, float64(res.OriginalBytes), promtestutil.ToFloat64(p.bytesIn.WithLabelValues(codec.NameDelta)), 1e-12)
	assert.InDelta(t, float64(res.CompressedBytes), promtestutil.ToFloat64(p.bytesOut.WithLabelValues(codec.NameDelta)), 1e-12)

	path := filepath.Join(t.TempDir(), "vecpress.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vecpress_compression_ratio")
	assert.Contains(t, string(data), `vecpress_operation_latency_seconds_count{method="delta-ans",op="decode",status="success"} 1`)
}

func TestRender(t *testing.T) {
	report := &Report{
		Datasets: []DatasetReport{
			{
				Name: "drift", Label: "Conversational Drift", N: 10, Dim: 4,
				ConsecutiveSimilarity: 0.97,
				Results: []Result{
					{Method: "delta", Lossless: true, Ratio: 9.5},
					{Method: "polar-delta", Error: "boom"},
				},
				Verdict: Validated, Best: "delta", BestLossless: "delta",
			},
			{
				Name: "similar", Label: "Random Similar", N: 10, Dim: 4,
				Results: []Result{{Method: "delta", Lossless: true, Ratio: 1.1}},
				Verdict: ControlCorrect,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Conversational Drift")
	assert.Contains(t, out, "9.50x")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, string(Validated))
	assert.Contains(t, out, string(ControlCorrect))
	assert.Contains(t, out, "Compression ratio by dataset")
}

func TestCurrentEnvironment(t *testing.T) {
	env := CurrentEnvironment()
	assert.Equal(t, runtime.GOARCH, env.GOARCH)
	assert.Equal(t, runtime.Version(), env.GoVersion)
	assert.Positive(t, env.NumCPU)
}
