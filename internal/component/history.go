package component

import (
	"errors"
	"fmt"
)

// ErrAlreadyFinalized is returned by History.Finalize on a second call.
var ErrAlreadyFinalized = errors.New("component already finalized")

// History accumulates a component's records. Components embed it to get a
// Finalize implementation for free.
type History struct {
	table *ResultTable
}

// Reset starts a fresh table. Call it from Initialize.
func (h *History) Reset(name string, columns ...string) {
	h.table = NewResultTable(name, columns...)
}

// Record appends the output for year and returns it.
func (h *History) Record(year int, values map[string]float64) (Record, error) {
	if h.table == nil {
		return Record{}, errors.New("history used before Reset")
	}
	r := Record{Year: year, Values: values}
	if err := h.table.Append(r); err != nil {
		return Record{}, err
	}
	return r.Clone(), nil
}

// Finalize seals and returns the table.
func (h *History) Finalize() (*ResultTable, error) {
	if h.table == nil {
		return nil, errors.New("history used before Reset")
	}
	if h.table.Sealed() {
		return nil, fmt.Errorf("%s: %w", h.table.Component, ErrAlreadyFinalized)
	}
	h.table.Seal()
	return h.table, nil
}
