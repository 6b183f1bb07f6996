package engine

import (
	"sync"

	"newslens/dataset"
)

// Model bundles the canonical table with its precomputed derived views: the
// per-entity exploded columns and the daily summary. Derived views are
// recomputed in full when the table changes (by building a new Model), never
// incrementally updated.
type Model struct {
	Table *dataset.Table

	Persons       *ExplodedView
	Organizations *ExplodedView
	Locations     *ExplodedView
	Countries     *ExplodedView

	Daily DailySummary
}

// NewModel precomputes every derived view for a freshly loaded table.
func NewModel(t *dataset.Table) *Model {
	full := dataset.NewFullView(t)
	return &Model{
		Table:         t,
		Persons:       Explode(full, dataset.ColPersons),
		Organizations: Explode(full, dataset.ColOrganizations),
		Locations:     Explode(full, dataset.ColLocations),
		Countries:     Explode(full, dataset.ColCountries),
		Daily:         AggregateByDay(full),
	}
}

// FullView selects every row of the model's table.
func (m *Model) FullView() *dataset.View {
	return dataset.NewFullView(m.Table)
}

// RefreshDailyStats recomputes the daily summary for a (typically filtered)
// view and stores it as the model's current summary. The recomputation is
// explicit so derived views stay reproducible and testable in isolation.
func (m *Model) RefreshDailyStats(v *dataset.View) DailySummary {
	m.Daily = AggregateByDay(v)
	return m.Daily
}

// SharedModel lets concurrent readers share one model while a reload swaps
// it out. Only the replacement is guarded; read paths on a snapshot need no
// locking because tables and views are read-only once built.
type SharedModel struct {
	mu    sync.RWMutex
	model *Model
}

// NewSharedModel wraps an initial model.
func NewSharedModel(m *Model) *SharedModel {
	return &SharedModel{model: m}
}

// Current returns the current model snapshot.
func (s *SharedModel) Current() *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Replace installs a freshly built model, e.g. after a reload.
func (s *SharedModel) Replace(m *Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}
