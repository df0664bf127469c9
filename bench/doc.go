// Package bench compares compression methods on synthetic vector sequences.
//
// A Runner generates each dataset, encodes and decodes it with every method
// and records ratio, timing and fidelity into a Report. Reports render as
// terminal tables, JSON, Prometheus textfiles, and can be archived together
// with the compressed blobs to a blobstore.
//
//	r := bench.NewRunner(bench.WithMethods("delta", "delta-ans"), bench.WithSize(1000, 768))
//	report, err := r.Run(ctx, dataset.Standard())
//	bench.Render(os.Stdout, report)
package bench
