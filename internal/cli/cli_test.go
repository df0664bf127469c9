package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/vecpress/bench"
	"github.com/hupe1980/vecpress/blobstore"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs vecbench with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMethods(t *testing.T) {
	out, err := execute(t, "methods")
	require.NoError(t, err)

	for _, m := range []string{"gzip", "delta", "delta-ans", "attractor", "sq8"} {
		assert.Contains(t, out, m)
	}
	assert.Contains(t, out, "correlation-aware")
	assert.Contains(t, out, "baseline")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vecbench dev")
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	promPath := filepath.Join(dir, "vecpress.prom")

	out, err := execute(t, "run",
		"--n", "120", "--dim", "8",
		"--datasets", "drift,linear",
		"--methods", "gzip,delta,delta-int8",
		"--backend", "zstd",
		"--json", jsonPath,
		"--metrics-textfile", promPath,
		"--quiet",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "verdict:")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	r, err := bench.ReadJSON(data)
	require.NoError(t, err)

	require.Len(t, r.Datasets, 2)
	assert.Equal(t, "zstd", r.Backend)
	assert.Equal(t, int64(42), r.Seed)
	for _, d := range r.Datasets {
		assert.Equal(t, 120, d.N)
		assert.Equal(t, 8, d.Dim)
		require.Len(t, d.Results, 3)
		res, ok := d.Result("delta")
		require.True(t, ok)
		assert.False(t, res.Failed())
		assert.Zero(t, res.MaxAbsError)
	}

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "vecpress_compression_ratio")
	assert.Contains(t, string(prom), `dataset="linear"`)
}

func TestRun_InvalidFlags(t *testing.T) {
	_, err := execute(t, "run", "--backend", "brotli", "--quiet")
	require.ErrorIs(t, err, config.ErrInvalidBackend)

	_, err = execute(t, "run", "--methods", "magic", "--quiet")
	require.ErrorIs(t, err, config.ErrUnknownMethod)

	_, err = execute(t, "run", "--n", "0", "--quiet")
	require.ErrorIs(t, err, config.ErrInvalidSize)
}

func TestRun_ArchiveAndReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VECBENCH_ARCHIVE_KIND", "local")
	t.Setenv("VECBENCH_ARCHIVE_PATH", dir)
	t.Setenv("VECBENCH_ARCHIVE_BLOBS", "true")

	out, err := execute(t, "run",
		"--n", "100", "--dim", "4",
		"--datasets", "similar",
		"--methods", "delta,int8",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "archived runs/")

	names, err := blobstore.NewLocalStore(dir).List(context.Background(), "runs")
	require.NoError(t, err)
	require.Len(t, names, 3)

	var blobs int
	for _, n := range names {
		if strings.HasSuffix(n, ".bin") {
			blobs++
		}
	}
	assert.Equal(t, 2, blobs)

	out, err = execute(t, "report", "list")
	require.NoError(t, err)
	reports := strings.Fields(out)
	require.Len(t, reports, 1)
	assert.True(t, strings.HasSuffix(reports[0], "/"+bench.ReportName))

	out, err = execute(t, "report", "show", reports[0], "--json")
	require.NoError(t, err)
	r, err := bench.ReadJSON([]byte(out))
	require.NoError(t, err)
	require.Len(t, r.Datasets, 1)
	assert.Equal(t, "similar", r.Datasets[0].Name)

	out, err = execute(t, "report", "show", reports[0])
	require.NoError(t, err)
	assert.Contains(t, out, "verdict:")

	_, err = execute(t, "report", "show", "runs/missing/report.json")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	run := strings.TrimSuffix(reports[0], "/"+bench.ReportName)
	out, err = execute(t, "report", "blobs", run)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "\t100x4\t")
	}

	out, err = execute(t, "report", "prune", "--keep", "1")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "report", "prune", "--keep", "0")
	require.NoError(t, err)
	assert.Equal(t, "removed "+run+"\n", out)

	names, err = blobstore.NewLocalStore(dir).List(context.Background(), "runs")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = execute(t, "report", "prune", "--keep=-1")
	assert.Error(t, err)
}

func TestReport_NoArchive(t *testing.T) {
	_, err := execute(t, "report", "list")
	require.ErrorIs(t, err, errNoArchive)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	cfgPath := filepath.Join(dir, "bench.yaml")
	yaml := "datasets:\n  n: 100\n  dim: 4\n  names: [clustered]\nmethods: [delta-rle]\noutput:\n  json: " + jsonPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	_, err := execute(t, "--config", cfgPath, "run", "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	r, err := bench.ReadJSON(data)
	require.NoError(t, err)
	require.Len(t, r.Datasets, 1)
	assert.Equal(t, "clustered", r.Datasets[0].Name)
	require.Len(t, r.Datasets[0].Results, 1)
	assert.Equal(t, "delta-rle", r.Datasets[0].Results[0].Method)
}

func TestAnalyzeDeltas(t *testing.T) {
	out, err := execute(t, "analyze", "deltas", "--n", "150", "--dim", "8", "--datasets", "drift")
	require.NoError(t, err)

	assert.Contains(t, out, "consecutive similarity")
	assert.Contains(t, out, "Element-wise deltas")
	assert.Contains(t, out, "Quantized delta entropy")
	assert.Contains(t, out, "real delta")
	assert.Contains(t, out, "Polar angle deltas")
}

func TestAnalyzeAttractor(t *testing.T) {
	out, err := execute(t, "analyze", "attractor", "--n", "150", "--dim", "6", "--datasets", "low-rank")
	require.NoError(t, err)

	assert.Contains(t, out, "correlation dimension D2")
	assert.Contains(t, out, "largest Lyapunov exponent")
	assert.Contains(t, out, "PCA")
}

func TestAnalyze_KeepsDatasetOrder(t *testing.T) {
	out, err := execute(t, "analyze", "attractor", "--n", "120", "--dim", "4", "--datasets", "linear,drift,similar")
	require.NoError(t, err)

	linear := strings.Index(out, "Linear Drift")
	drift := strings.Index(out, "Conversational Drift")
	similar := strings.Index(out, "Random Similar")
	require.True(t, linear >= 0 && drift >= 0 && similar >= 0)
	assert.Less(t, linear, drift)
	assert.Less(t, drift, similar)
}

func TestAnalyze_UnknownDataset(t *testing.T) {
	_, err := execute(t, "analyze", "deltas", "--datasets", "sine")
	require.ErrorIs(t, err, config.ErrUnknownDataset)
}
