// Package collector joins per-component result tables into one KPI table
// keyed by year.
//
// The join is a full outer join: every year produced by any component gets
// a row, and a component with no record for a year contributes Absent cells
// to that row rather than zeros.
package collector

import (
	"math"
	"sort"
	"strconv"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
)

// Cell is one KPI value. Present is false for the absent-value marker.
type Cell struct {
	Value   float64
	Present bool
}

// Absent marks a component-year with no output.
var Absent = Cell{}

// Float returns the value, or NaN when the cell is absent.
func (c Cell) Float() float64 {
	if !c.Present {
		return math.NaN()
	}
	return c.Value
}

func (c Cell) String() string {
	if !c.Present {
		return "NA"
	}
	return strconv.FormatFloat(c.Value, 'g', 6, 64)
}

// ColumnName namespaces a component column.
func ColumnName(componentName, column string) string {
	return componentName + config.PathSeparator + column
}

// KPITable is the year-indexed join of all component tables. It is
// immutable once returned by Collect.
type KPITable struct {
	years    []int
	columns  []string
	colIndex map[string]int
	rowIndex map[int]int
	cells    [][]Cell
}

// Collect performs the outer join. Nil tables and an empty map are allowed
// and yield an empty, well-formed table.
func Collect(results map[string]*component.ResultTable) *KPITable {
	t := &KPITable{
		colIndex: make(map[string]int),
		rowIndex: make(map[int]int),
	}

	names := config.SortedKeys(results)
	yearSet := make(map[int]struct{})
	for _, name := range names {
		table := results[name]
		if table == nil {
			continue
		}
		for _, col := range table.Columns() {
			full := ColumnName(name, col)
			if _, dup := t.colIndex[full]; dup {
				continue
			}
			t.colIndex[full] = len(t.columns)
			t.columns = append(t.columns, full)
		}
		for _, y := range table.Years() {
			yearSet[y] = struct{}{}
		}
	}

	t.years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		t.years = append(t.years, y)
	}
	sort.Ints(t.years)

	t.cells = make([][]Cell, len(t.years))
	for i, y := range t.years {
		t.rowIndex[y] = i
		t.cells[i] = make([]Cell, len(t.columns))
	}

	for _, name := range names {
		table := results[name]
		if table == nil {
			continue
		}
		for _, rec := range table.Records() {
			row := t.cells[t.rowIndex[rec.Year]]
			for col, v := range rec.Values {
				row[t.colIndex[ColumnName(name, col)]] = Cell{Value: v, Present: true}
			}
		}
	}
	return t
}

// Years returns the row keys in ascending order.
func (t *KPITable) Years() []int { return append([]int(nil), t.years...) }

// Columns returns the namespaced column names.
func (t *KPITable) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *KPITable) Len() int { return len(t.years) }

// Empty reports whether the table has no rows.
func (t *KPITable) Empty() bool { return len(t.years) == 0 }

// FinalYear returns the last year in the table.
func (t *KPITable) FinalYear() (int, bool) {
	if len(t.years) == 0 {
		return 0, false
	}
	return t.years[len(t.years)-1], true
}

// Cell returns the value at (year, column), or Absent.
func (t *KPITable) Cell(year int, column string) Cell {
	r, ok := t.rowIndex[year]
	if !ok {
		return Absent
	}
	c, ok := t.colIndex[column]
	if !ok {
		return Absent
	}
	return t.cells[r][c]
}

// Row returns all cells of a year keyed by column.
func (t *KPITable) Row(year int) (map[string]Cell, bool) {
	r, ok := t.rowIndex[year]
	if !ok {
		return nil, false
	}
	out := make(map[string]Cell, len(t.columns))
	for i, col := range t.columns {
		out[col] = t.cells[r][i]
	}
	return out, true
}

// Column returns one column in year order, or nil for an unknown column.
func (t *KPITable) Column(column string) []Cell {
	c, ok := t.colIndex[column]
	if !ok {
		return nil
	}
	out := make([]Cell, len(t.years))
	for i := range t.years {
		out[i] = t.cells[i][c]
	}
	return out
}
