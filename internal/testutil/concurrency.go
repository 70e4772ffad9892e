package testutil

import (
	"sync"
	"time"

	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/config"
)

// ExecutionRecord is the wall-clock span of one component step.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// ConcurrencyTracker is shared by SleeperComponents living in different
// engines. It records how many of them were stepping at the same time.
type ConcurrencyTracker struct {
	mu         sync.Mutex
	active     int
	peak       int
	executions []ExecutionRecord
}

func (t *ConcurrencyTracker) enter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active++
	if t.active > t.peak {
		t.peak = t.active
	}
}

func (t *ConcurrencyTracker) leave(rec ExecutionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active--
	t.executions = append(t.executions, rec)
}

// Peak returns the highest number of overlapping steps observed.
func (t *ConcurrencyTracker) Peak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peak
}

// Executions returns a copy of all recorded steps.
func (t *ConcurrencyTracker) Executions() []ExecutionRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ExecutionRecord(nil), t.executions...)
}

// SleeperComponent sleeps in every step while holding a slot in Tracker.
type SleeperComponent struct {
	component.History
	ID      string
	Sleep   time.Duration
	Tracker *ConcurrencyTracker
}

func (c *SleeperComponent) Name() string { return c.ID }

func (c *SleeperComponent) Initialize(config.Config) error {
	c.Reset(c.ID, "slept_ms")
	return nil
}

func (c *SleeperComponent) Step(year int, _ component.View) (component.Record, error) {
	c.Tracker.enter()
	start := time.Now()
	time.Sleep(c.Sleep)
	end := time.Now()
	c.Tracker.leave(ExecutionRecord{Start: start, End: end})
	return c.Record(year, map[string]float64{"slept_ms": float64(end.Sub(start).Milliseconds())})
}
