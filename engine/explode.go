// Package engine derives views over the canonical dataset: long-form
// projections of multi-valued columns, daily and per-entity aggregates, and
// declarative filtering. All operations are pure: they allocate fresh
// outputs and never mutate the table or the view they are given.
package engine

import (
	"strings"
	"time"

	"newslens/dataset"
)

// ExplodedView is the long-form projection of one multi-valued column: one
// entry per (row, value) pair, carrying the originating row id and the row's
// shows and publishedAt for downstream aggregation. Entries preserve the
// within-row ordering of values.
type ExplodedView struct {
	Column      string
	Values      []string
	RowIDs      []uint32
	Shows       []int64
	PublishedAt []time.Time
}

// Len returns the number of (row, value) entries.
func (ev *ExplodedView) Len() int {
	return len(ev.Values)
}

// Explode projects the named multi-valued column of a view into long form.
// An unknown column yields an empty view with the expected shape rather than
// an error. Values are trimmed and empties dropped as a guard against data
// that bypassed the loader.
func Explode(v *dataset.View, column string) *ExplodedView {
	ev := &ExplodedView{Column: column}
	table := v.Table()
	lists, ok := table.List(column)
	if !ok {
		return ev
	}
	v.Each(func(row uint32) {
		for _, value := range lists[row] {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			ev.Values = append(ev.Values, value)
			ev.RowIDs = append(ev.RowIDs, row)
			ev.Shows = append(ev.Shows, table.Shows[row])
			ev.PublishedAt = append(ev.PublishedAt, table.PublishedAt[row])
		}
	})
	return ev
}
