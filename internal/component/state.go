package component

// View is the read-only window a component gets onto the run state.
type View interface {
	// Year is the year currently being simulated.
	Year() int
	// Latest returns a copy of the most recent record published by the
	// named component. During year Y this is the year Y record for
	// components registered earlier and the year Y-1 record for the rest.
	Latest(name string) (Record, bool)
	// Value is shorthand for one column of Latest.
	Value(name, column string) (float64, bool)
}

// State is the per-run mutable context. It is owned by one engine and
// never shared across runs.
type State struct {
	year    int
	outputs map[string]Record
}

// NewState returns an empty state.
func NewState() *State {
	return &State{outputs: make(map[string]Record)}
}

// Year implements View.
func (s *State) Year() int { return s.year }

// SetYear advances the current year.
func (s *State) SetYear(year int) { s.year = year }

// Publish stores the latest record of a component.
func (s *State) Publish(name string, r Record) {
	s.outputs[name] = r.Clone()
}

// Latest implements View.
func (s *State) Latest(name string) (Record, bool) {
	r, ok := s.outputs[name]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// Value implements View.
func (s *State) Value(name, column string) (float64, bool) {
	r, ok := s.outputs[name]
	if !ok {
		return 0, false
	}
	return r.Value(column)
}

// ValueOr returns the named column or def when it is not published.
func ValueOr(v View, name, column string, def float64) float64 {
	if x, ok := v.Value(name, column); ok {
		return x
	}
	return def
}
