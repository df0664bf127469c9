package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/vecpress/bench"
	"github.com/schollz/progressbar/v3"
)

// progressReporter implements bench.ProgressReporter with one bar per dataset.
type progressReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w}
}

func (p *progressReporter) OnDatasetStart(name string, methods int) {
	p.bar = progressbar.NewOptions(methods,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.w)
		}),
	)
}

func (p *progressReporter) OnMethodDone(dataset string, r bench.Result) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("%s: %s", dataset, r.Method))
	_ = p.bar.Add(1)
}

func (p *progressReporter) OnDatasetDone(d *bench.DatasetReport) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(d.Name)
	_ = p.bar.Finish()
	p.bar = nil
}
