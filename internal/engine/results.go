package engine

import (
	"github.com/vk/transitionsim/internal/collector"
	"github.com/vk/transitionsim/internal/component"
)

// Results is the externally visible output of a completed run.
type Results struct {
	RunID      string
	StartYear  int
	EndYear    int
	Components []string
	Tables     map[string]*component.ResultTable
	KPI        *collector.KPITable
}

// Table returns the raw table of one component.
func (r *Results) Table(name string) (*component.ResultTable, bool) {
	t, ok := r.Tables[name]
	return t, ok
}
