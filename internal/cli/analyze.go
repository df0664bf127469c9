package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hupe1980/vecpress"
	"github.com/hupe1980/vecpress/analysis"
	"github.com/hupe1980/vecpress/bench"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

type analyzeOptions struct {
	n, dim   int
	seed     int64
	datasets []string
}

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	o := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Diagnose why a dataset does or does not compress",
	}

	f := cmd.PersistentFlags()
	f.IntVar(&o.n, "n", bench.DefaultN, "vectors per dataset")
	f.IntVarP(&o.dim, "dim", "d", bench.DefaultDim, "vector dimension")
	f.Int64Var(&o.seed, "seed", bench.DefaultSeed, "generator seed")
	f.StringSliceVar(&o.datasets, "datasets", nil, "datasets to analyze (default: the configured datasets)")

	cmd.AddCommand(newAnalyzeDeltasCmd(g, o), newAnalyzeAttractorCmd(g, o))
	return cmd
}

func newAnalyzeDeltasCmd(g *globalOptions, o *analyzeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deltas",
		Short: "Delta distribution, entropy and real versus theoretical compressibility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, specs, err := o.load(cmd, g)
			if err != nil {
				return err
			}
			delta, err := vecpress.New(codec.NameDelta)
			if err != nil {
				return err
			}

			return o.forEachDataset(cmd, cfg, specs, func(ctx context.Context, w io.Writer, spec dataset.Spec, vectors [][]float32) error {
				return analyzeDeltas(ctx, w, delta, spec, vectors)
			})
		},
	}
}

func newAnalyzeAttractorCmd(g *globalOptions, o *analyzeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attractor",
		Short: "Correlation dimension, Lyapunov exponent and PCA versus greedy variance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, specs, err := o.load(cmd, g)
			if err != nil {
				return err
			}

			return o.forEachDataset(cmd, cfg, specs, func(_ context.Context, w io.Writer, spec dataset.Spec, vectors [][]float32) error {
				return analyzeAttractor(w, spec, vectors, cfg.Attractor.Components)
			})
		},
	}
}

func (o *analyzeOptions) load(cmd *cobra.Command, g *globalOptions) (*config.Config, []dataset.Spec, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	f := cmd.Flags()
	if f.Changed("n") {
		cfg.Datasets.N = o.n
	}
	if f.Changed("dim") {
		cfg.Datasets.Dim = o.dim
	}
	if f.Changed("seed") {
		cfg.Datasets.Seed = o.seed
	}
	if f.Changed("datasets") {
		cfg.Datasets.Names = o.datasets
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	specs, err := datasetSpecs(cfg.Datasets.Names)
	if err != nil {
		return nil, nil, err
	}
	return cfg, specs, nil
}

// forEachDataset generates and analyzes the datasets concurrently and writes
// their outputs in dataset order.
func (o *analyzeOptions) forEachDataset(cmd *cobra.Command, cfg *config.Config, specs []dataset.Spec,
	fn func(ctx context.Context, w io.Writer, spec dataset.Spec, vectors [][]float32) error,
) error {
	outs := make([]bytes.Buffer, len(specs))

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range specs {
		eg.Go(func() error {
			return fn(ctx, &outs[i], spec, o.generate(cfg, spec, i))
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i := range outs {
		if _, err := outs[i].WriteTo(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return nil
}

// generate seeds dataset i the same way bench.Runner does, so analyses match
// the corresponding run.
func (o *analyzeOptions) generate(cfg *config.Config, spec dataset.Spec, i int) [][]float32 {
	rng := dataset.NewRNG(cfg.Datasets.Seed + int64(i))
	return spec.Generate(rng, cfg.Datasets.N, cfg.Datasets.Dim)
}

func analyzeDeltas(ctx context.Context, w io.Writer, delta *vecpress.Compressor, spec dataset.Spec, vectors [][]float32) error {
	n, dim := len(vectors), len(vectors[0])
	fmt.Fprintf(w, "%s  (%d×%d)\n", sectionStyle.Render(spec.Label), n, dim)
	fmt.Fprintf(w, "consecutive similarity: %.4f\n\n", analysis.ConsecutiveSimilarity(vectors))

	deltas := analysis.DeltaDistribution(vectors)
	fmt.Fprintln(w, "Element-wise deltas")
	writeDeltaStats(w, deltas)

	ent := analysis.QuantizedEntropy(vectors)
	fmt.Fprintln(w, "Quantized delta entropy (int8)")
	fmt.Fprintf(w, "  symbols %d, unique %d, entropy %.3f bits/symbol\n", ent.Symbols, ent.Unique, ent.Bits)
	fmt.Fprintf(w, "  theoretical: %d bytes, potential %s\n", ent.TheoreticalBytes, formatRatio(ent.Potential))

	blob, err := delta.Encode(ctx, vectors)
	if err != nil {
		return err
	}
	actual := vecpress.Ratio(n, dim, len(blob))
	theoretical := math.Inf(1)
	if ent.TheoreticalBytes > 0 {
		theoretical = float64(vecpress.RawSize(n, dim)) / float64(ent.TheoreticalBytes)
	}
	fmt.Fprintf(w, "  real %s: %d bytes, %s; theoretical %s\n\n",
		delta.Method(), len(blob), formatRatio(actual), formatRatio(theoretical))

	fmt.Fprintln(w, "Polar angle deltas (wrapped)")
	writeDeltaStats(w, analysis.AngularDistribution(vectors))
	return nil
}

func writeDeltaStats(w io.Writer, s analysis.DeltaStats) {
	fmt.Fprintf(w, "  count %d, mean %.6f, mean |Δ| %.6f, median %.6f, p95 %.6f, max %.6f\n",
		s.Count, s.Mean, s.MeanAbs, s.Median, s.P95, s.Max)

	rows := make([][]string, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		rows = append(rows, []string{
			fmt.Sprintf("[%s, %s)", formatBound(b.Lo), formatBound(b.Hi)),
			strconv.Itoa(b.Count),
			fmt.Sprintf("%.2f%%", b.Percent),
		})
	}
	fmt.Fprintln(w, styledTable([]string{"|Δ|", "count", "share"}, rows))
	fmt.Fprintln(w)
}

func analyzeAttractor(w io.Writer, spec dataset.Spec, vectors [][]float32, k int) error {
	fmt.Fprintf(w, "%s  (%d×%d)\n", sectionStyle.Render(spec.Label), len(vectors), len(vectors[0]))

	a := analysis.AnalyzeAttractor(vectors)
	fmt.Fprintln(w, styledTable([]string{"measure", "value"}, [][]string{
		{"points", strconv.Itoa(a.Points)},
		{"embedding dimension", strconv.Itoa(a.EmbeddingDim)},
		{"correlation dimension D2", fmt.Sprintf("%.3f", a.D2)},
		{"largest Lyapunov exponent", fmt.Sprintf("%.4f", a.Lambda1)},
		{"chaotic", yesNo(a.Chaotic)},
		{"compression potential", formatRatio(a.CompressionPotential)},
	}))

	k = min(k, len(vectors[0]))
	pca, err := analysis.PCAExplainedVariance(vectors, k)
	if err != nil {
		return err
	}
	greedy := analysis.GreedyRetainedVariance(vectors, k)
	fmt.Fprintf(w, "variance kept by %d components: PCA %.2f%%, greedy top-variance axes %.2f%%\n\n",
		k, 100*pca, 100*greedy)
	return nil
}

func styledTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func formatBound(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2fx", r)
}
