package app

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/engine"
	"github.com/vk/transitionsim/internal/montecarlo"
	"github.com/vk/transitionsim/internal/scenario"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func writeRow(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

// printResults writes the KPI table of a single run, one row per year.
func printResults(w io.Writer, res *engine.Results) error {
	tw := newTable(w)
	columns := res.KPI.Columns()
	writeRow(tw, append([]string{"year"}, columns...)...)
	for _, year := range res.KPI.Years() {
		row := []string{strconv.Itoa(year)}
		for _, col := range columns {
			c := res.KPI.Cell(year, col)
			if !c.Present {
				row = append(row, "NA")
				continue
			}
			row = append(row, formatFloat(c.Value))
		}
		writeRow(tw, row...)
	}
	return tw.Flush()
}

// printEnsemble writes the iteration counts, the final-year summary of
// every KPI column and the sensitivity coefficients.
func printEnsemble(w io.Writer, res *montecarlo.Result) error {
	fmt.Fprintf(w, "ensemble %s: %d succeeded, %d failed, %d skipped\n",
		res.EnsembleID, res.Succeeded, res.Failed, res.Skipped)

	year, ok := res.Summary.FinalYear()
	if !ok {
		return nil
	}

	fmt.Fprintf(w, "\nsummary for %d\n", year)
	tw := newTable(w)
	writeRow(tw, "column", "n", "mean", "std", "min", "p10", "p50", "p90", "max")
	for _, col := range res.Summary.Columns {
		st, ok := res.Summary.Stats(col, year)
		if !ok {
			continue
		}
		writeRow(tw, col, strconv.Itoa(st.Count),
			formatFloat(st.Mean), formatFloat(st.Std), formatFloat(st.Min),
			formatFloat(st.P10), formatFloat(st.P50), formatFloat(st.P90), formatFloat(st.Max))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Sensitivity) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nsensitivity for %d\n", year)
	tw = newTable(w)
	writeRow(tw, "parameter", "target", "correlation", "slope")
	for _, c := range res.Sensitivity {
		writeRow(tw, c.Parameter, c.Target, formatFloat(c.Correlation), formatFloat(c.Slope))
	}
	return tw.Flush()
}

// printComparison writes one row per differing override path with the
// value each scenario sets, or "-" when it leaves the path alone.
func printComparison(w io.Writer, cmp *scenario.Comparison) error {
	if len(cmp.Differing) == 0 {
		_, err := fmt.Fprintf(w, "scenarios %s have identical overrides\n", strings.Join(cmp.Names, ", "))
		return err
	}
	tw := newTable(w)
	writeRow(tw, append([]string{"path"}, cmp.Names...)...)
	for _, path := range cmp.Differing {
		row := []string{path}
		for _, name := range cmp.Names {
			v, ok := cmp.Overrides[name][path]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatValue(v))
		}
		writeRow(tw, row...)
	}
	return tw.Flush()
}

func formatValue(v any) string {
	if f, ok := config.ToFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
