package bench

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	bestStyle    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	verdictStyle = map[Verdict]lipgloss.Style{
		Validated:          lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Refuted:            lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		ControlCorrect:     lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		BetterThanExpected: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Inconclusive:       dimStyle,
	}
)

// Render writes one results table per dataset followed by a comparison of
// ratios across datasets.
func Render(w io.Writer, r *Report) error {
	var b strings.Builder
	for i := range r.Datasets {
		renderDataset(&b, &r.Datasets[i])
		b.WriteString("\n")
	}
	if len(r.Datasets) > 1 {
		b.WriteString(titleStyle.Render("Compression ratio by dataset"))
		b.WriteString("\n")
		b.WriteString(ComparisonTable(r))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderDataset(b *strings.Builder, d *DatasetReport) {
	fmt.Fprintf(b, "%s  %s\n",
		titleStyle.Render(d.Label),
		dimStyle.Render(fmt.Sprintf("%d×%d, consecutive similarity %.4f", d.N, d.Dim, d.ConsecutiveSimilarity)),
	)
	b.WriteString(DatasetTable(d))
	b.WriteString("\n")

	style, ok := verdictStyle[d.Verdict]
	if !ok {
		style = dimStyle
	}
	fmt.Fprintf(b, "verdict: %s  best: %s  best lossless: %s\n",
		style.Render(string(d.Verdict)), orDash(d.Best), orDash(d.BestLossless))
}

// DatasetTable renders the results of one dataset.
func DatasetTable(d *DatasetReport) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("method", "lossless", "ratio", "encode", "decode", "loss %", "max err")

	for _, r := range d.Results {
		if r.Failed() {
			t.Row(r.Method, yesNo(r.Lossless), "error", "", "", "", r.Error)
			continue
		}
		t.Row(
			r.Method,
			yesNo(r.Lossless),
			fmt.Sprintf("%.2fx", r.Ratio),
			r.EncodeTime.Round(10 * time.Microsecond).String(),
			r.DecodeTime.Round(10 * time.Microsecond).String(),
			fmt.Sprintf("%.4f", r.AccuracyLoss),
			fmt.Sprintf("%.2g", r.MaxAbsError),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row < 0 || row >= len(d.Results) {
			return cellStyle
		}
		res := d.Results[row]
		switch {
		case res.Failed():
			return errorStyle
		case res.Method == d.Best:
			return bestStyle
		}
		return cellStyle
	})

	return t.String()
}

// ComparisonTable renders one row per dataset and one ratio column per method.
func ComparisonTable(r *Report) string {
	var methods []string
	seen := make(map[string]bool)
	for _, d := range r.Datasets {
		for _, res := range d.Results {
			if !seen[res.Method] {
				seen[res.Method] = true
				methods = append(methods, res.Method)
			}
		}
	}

	headers := append([]string{"dataset", "similarity"}, methods...)
	headers = append(headers, "verdict")

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...)

	for _, d := range r.Datasets {
		row := []string{d.Name, fmt.Sprintf("%.4f", d.ConsecutiveSimilarity)}
		for _, m := range methods {
			res, ok := d.Result(m)
			switch {
			case !ok:
				row = append(row, "")
			case res.Failed():
				row = append(row, "error")
			default:
				row = append(row, fmt.Sprintf("%.2fx", res.Ratio))
			}
		}
		row = append(row, string(d.Verdict))
		t.Row(row...)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})

	return t.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
