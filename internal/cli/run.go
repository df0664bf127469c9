package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/bench"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/spf13/cobra"
)

type runOptions struct {
	n, dim          int
	seed            int64
	datasets        []string
	methods         []string
	backend         string
	components      int
	jsonPath        string
	metricsTextfile string
	archive         string
	archivePath     string
	quiet           bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare compression methods over synthetic datasets",
		Long: `Run generates each configured dataset, encodes and decodes it with every
configured method and prints ratio, accuracy loss and timing per method,
followed by a verdict on whether consecutive similarity predicted delta
compressibility.

Examples:
  # Reference experiment: 4 datasets, 1000x768, every method
  vecbench run

  # Small run restricted to the core codecs, JSON report
  vecbench run --n 200 --dim 64 --methods delta,delta-ans,attractor --json report.json

  # Archive the report and encoded blobs to a local directory
  vecbench run --archive local --archive-path ./runs
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := o.apply(cmd, cfg); err != nil {
				return err
			}
			return runBench(cmd, g, cfg, o.quiet)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.n, "n", bench.DefaultN, "vectors per dataset")
	f.IntVarP(&o.dim, "dim", "d", bench.DefaultDim, "vector dimension")
	f.Int64Var(&o.seed, "seed", bench.DefaultSeed, "generator seed")
	f.StringSliceVar(&o.datasets, "datasets", nil, "datasets to run (default: the four reference datasets)")
	f.StringSliceVarP(&o.methods, "methods", "m", nil, "methods to compare (default: all)")
	f.StringVarP(&o.backend, "backend", "b", "gzip", "payload backend: gzip, zstd or lz4")
	f.IntVarP(&o.components, "components", "k", codec.DefaultComponents, "dimensions kept by the attractor method")
	f.StringVar(&o.jsonPath, "json", "", "write the JSON report to this file")
	f.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this textfile")
	f.StringVar(&o.archive, "archive", "", "archive kind: none, local or minio")
	f.StringVar(&o.archivePath, "archive-path", "", "directory of the local archive")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "suppress progress bars")

	return cmd
}

// apply overrides cfg with the flags the user set explicitly.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
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
	if f.Changed("methods") {
		cfg.Methods = o.methods
	}
	if f.Changed("backend") {
		cfg.Backend = o.backend
	}
	if f.Changed("components") {
		cfg.Attractor.Components = o.components
	}
	if f.Changed("json") {
		cfg.Output.JSON = o.jsonPath
	}
	if f.Changed("metrics-textfile") {
		cfg.Output.MetricsTextfile = o.metricsTextfile
	}
	if f.Changed("archive") {
		cfg.Archive.Kind = o.archive
	}
	if f.Changed("archive-path") {
		cfg.Archive.Path = o.archivePath
	}
	return config.Validate(cfg)
}

func datasetSpecs(names []string) ([]dataset.Spec, error) {
	if len(names) == 0 {
		return dataset.Standard(), nil
	}
	specs := make([]dataset.Spec, 0, len(names))
	for _, name := range names {
		s, err := dataset.ByName(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

func runBench(cmd *cobra.Command, g *globalOptions, cfg *config.Config, quiet bool) error {
	ctx := cmd.Context()
	logger := g.newLogger(cmd.ErrOrStderr(), cfg.Log)

	b, err := backend.ByName(cfg.Backend)
	if err != nil {
		return err
	}
	specs, err := datasetSpecs(cfg.Datasets.Names)
	if err != nil {
		return err
	}

	prom := bench.NewPrometheusCollector()
	opts := []bench.RunnerOption{
		bench.WithMethods(cfg.Methods...),
		bench.WithSize(cfg.Datasets.N, cfg.Datasets.Dim),
		bench.WithSeed(cfg.Datasets.Seed),
		bench.WithBackend(b),
		bench.WithComponents(cfg.Attractor.Components),
		bench.WithLogger(logger),
		bench.WithMetricsCollector(prom),
	}
	if !quiet {
		opts = append(opts, bench.WithProgress(newProgressReporter(cmd.ErrOrStderr())))
	}

	store, err := openStore(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	var archiver *bench.Archiver
	if store != nil {
		run := time.Now().UTC().Format("20060102T150405Z")
		archiver = bench.NewArchiver(store, cfg.Archive.Prefix, run, cfg.Archive.Blobs)
		opts = append(opts, bench.WithBlobSink(archiver))
	}

	runner, err := bench.NewRunner(opts...)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting run",
		"datasets", len(specs),
		"methods", len(runner.Methods()),
		"n", cfg.Datasets.N,
		"dim", cfg.Datasets.Dim,
		"backend", b.Name(),
	)

	report, err := runner.Run(ctx, specs)
	if err != nil {
		return err
	}
	prom.ObserveReport(report)

	if err := bench.Render(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if cfg.Output.JSON != "" {
		if err := writeReportFile(cfg.Output.JSON, report); err != nil {
			return err
		}
		logger.InfoContext(ctx, "wrote report", "path", cfg.Output.JSON)
	}

	if cfg.Output.MetricsTextfile != "" {
		if err := prom.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		logger.InfoContext(ctx, "wrote metrics", "path", cfg.Output.MetricsTextfile)
	}

	if archiver != nil {
		name, err := archiver.ArchiveReport(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", name)
	}

	logger.InfoContext(ctx, "run complete", "duration", report.Duration)
	return nil
}

func writeReportFile(path string, r *bench.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := bench.WriteJSON(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
