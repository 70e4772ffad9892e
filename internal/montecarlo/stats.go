package montecarlo

import (
	"math"
	"sort"

	"github.com/vk/transitionsim/internal/config"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one KPI column in one year across iterations. Absent
// cells are excluded. Std is the sample standard deviation and is NaN for
// fewer than two values; every field but Count is NaN when Count is zero.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	P10   float64
	P50   float64
	P90   float64
}

// Summary holds Stats per column per year.
type Summary struct {
	Years   []int
	Columns []string
	stats   map[string]map[int]Stats
}

// Stats returns the statistics of column in year.
func (s *Summary) Stats(column string, year int) (Stats, bool) {
	byYear, ok := s.stats[column]
	if !ok {
		return Stats{}, false
	}
	st, ok := byYear[year]
	return st, ok
}

// FinalYear returns the last summarized year.
func (s *Summary) FinalYear() (int, bool) {
	if len(s.Years) == 0 {
		return 0, false
	}
	return s.Years[len(s.Years)-1], true
}

func summarize(its []Iteration) *Summary {
	s := &Summary{stats: make(map[string]map[int]Stats)}

	years := make(map[int]struct{})
	columns := make(map[string]struct{})
	for _, it := range its {
		for _, y := range it.KPI.Years() {
			years[y] = struct{}{}
		}
		for _, c := range it.KPI.Columns() {
			columns[c] = struct{}{}
		}
	}
	for y := range years {
		s.Years = append(s.Years, y)
	}
	sort.Ints(s.Years)
	s.Columns = config.SortedKeys(columns)

	for _, col := range s.Columns {
		byYear := make(map[int]Stats, len(s.Years))
		for _, y := range s.Years {
			var xs []float64
			for _, it := range its {
				if c := it.KPI.Cell(y, col); c.Present && !math.IsNaN(c.Value) {
					xs = append(xs, c.Value)
				}
			}
			byYear[y] = describe(xs)
		}
		s.stats[col] = byYear
	}
	return s
}

func describe(xs []float64) Stats {
	nan := math.NaN()
	if len(xs) == 0 {
		return Stats{Mean: nan, Std: nan, Min: nan, Max: nan, P10: nan, P50: nan, P90: nan}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	st := Stats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Std:   nan,
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P10:   stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:   stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:   stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
	if len(sorted) >= 2 {
		st.Std = stat.StdDev(sorted, nil)
	}
	return st
}

// Coefficient is the sensitivity of one KPI column to one sampled
// parameter at the final simulated year. Correlation is Pearson's r and
// Slope the least-squares regression coefficient of the KPI on the
// parameter. Both are NaN with fewer than two pairs or when the parameter
// does not vary; Correlation is also NaN when the KPI does not vary.
type Coefficient struct {
	Parameter   string
	Target      string
	Year        int
	N           int
	Correlation float64
	Slope       float64
}

func sensitivity(params []string, its []Iteration, summary *Summary) []Coefficient {
	year, ok := summary.FinalYear()
	if !ok {
		return nil
	}
	var out []Coefficient
	for _, p := range params {
		for _, col := range summary.Columns {
			var xs, ys []float64
			for _, it := range its {
				x, okX := it.Params[p]
				c := it.KPI.Cell(year, col)
				if !okX || !c.Present || math.IsNaN(c.Value) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, c.Value)
			}
			out = append(out, coefficient(p, col, year, xs, ys))
		}
	}
	return out
}

func coefficient(param, target string, year int, xs, ys []float64) Coefficient {
	c := Coefficient{
		Parameter:   param,
		Target:      target,
		Year:        year,
		N:           len(xs),
		Correlation: math.NaN(),
		Slope:       math.NaN(),
	}
	if len(xs) < 2 {
		return c
	}
	if stat.Variance(xs, nil) == 0 {
		return c
	}
	_, c.Slope = stat.LinearRegression(xs, ys, nil, false)
	if stat.Variance(ys, nil) > 0 {
		c.Correlation = stat.Correlation(xs, ys, nil)
	}
	return c
}
