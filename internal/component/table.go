package component

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTableSealed is returned when appending to a finalized table.
	ErrTableSealed = errors.New("result table is sealed")
	// ErrYearOrder is returned when records are not strictly ascending.
	ErrYearOrder = errors.New("result table years must be strictly ascending")
	// ErrUnknownColumn is returned when a record carries a column outside
	// the table's fixed column set.
	ErrUnknownColumn = errors.New("unknown result column")
)

// ResultTable is the ordered sequence of a component's per-year records.
// It is append-only while the run is in progress and immutable once sealed.
type ResultTable struct {
	Component string
	columns   []string
	colIndex  map[string]struct{}
	records   []Record
	sealed    bool
}

// NewResultTable returns an empty table. When no columns are given the
// column set is fixed by the first appended record.
func NewResultTable(component string, columns ...string) *ResultTable {
	t := &ResultTable{Component: component}
	if len(columns) > 0 {
		t.setColumns(columns)
	}
	return t
}

func (t *ResultTable) setColumns(columns []string) {
	t.columns = append([]string(nil), columns...)
	t.colIndex = make(map[string]struct{}, len(columns))
	for _, c := range columns {
		t.colIndex[c] = struct{}{}
	}
}

// Append adds the record for the next year.
func (t *ResultTable) Append(r Record) error {
	if t.sealed {
		return fmt.Errorf("%s: %w", t.Component, ErrTableSealed)
	}
	if n := len(t.records); n > 0 && r.Year <= t.records[n-1].Year {
		return fmt.Errorf("%s: year %d after %d: %w", t.Component, r.Year, t.records[n-1].Year, ErrYearOrder)
	}
	if t.colIndex == nil {
		cols := make([]string, 0, len(r.Values))
		for c := range r.Values {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		t.setColumns(cols)
	}
	for c := range r.Values {
		if _, ok := t.colIndex[c]; !ok {
			return fmt.Errorf("%s: column %q: %w", t.Component, c, ErrUnknownColumn)
		}
	}
	t.records = append(t.records, r.Clone())
	return nil
}

// Seal makes the table immutable.
func (t *ResultTable) Seal() { t.sealed = true }

// Sealed reports whether Seal has been called.
func (t *ResultTable) Sealed() bool { return t.sealed }

// Columns returns the fixed column set in declaration order.
func (t *ResultTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of records.
func (t *ResultTable) Len() int { return len(t.records) }

// Records returns copies of all records in year order.
func (t *ResultTable) Records() []Record {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = r.Clone()
	}
	return out
}

// Years returns the years covered, ascending.
func (t *ResultTable) Years() []int {
	out := make([]int, len(t.records))
	for i, r := range t.records {
		out[i] = r.Year
	}
	return out
}

// Lookup returns the record for year.
func (t *ResultTable) Lookup(year int) (Record, bool) {
	i := sort.Search(len(t.records), func(i int) bool { return t.records[i].Year >= year })
	if i < len(t.records) && t.records[i].Year == year {
		return t.records[i].Clone(), true
	}
	return Record{}, false
}
