// Package dataset loads the news-mentions dataset into an in-memory columnar
// table and manages its on-disk Parquet cache. The table is read-only once
// loaded; filtering and aggregation operate on row-selection views so the
// canonical data is never copied or mutated.
package dataset

import (
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Canonical column names. These are a fixed contract with downstream
// consumers regardless of how the source file spells its headers.
const (
	ColPublishedAt   = "publishedAt"
	ColTitle         = "title"
	ColTitleLower    = "titleLower"
	ColShows         = "shows"
	ColBadVerdicts   = "badVerdicts"
	ColTopicVerdicts = "topicVerdicts"
	ColPersons       = "persons"
	ColOrganizations = "organizations"
	ColLocations     = "locations"
	ColCountries     = "countries"
)

// ListColumns enumerates the multi-valued columns present on every table.
var ListColumns = []string{
	ColBadVerdicts,
	ColTopicVerdicts,
	ColPersons,
	ColOrganizations,
	ColLocations,
	ColCountries,
}

// Table is the canonical dataset: one slice per column, row identity is the
// slice index. A zero PublishedAt value marks an absent timestamp. Every
// list column holds an entry for every row, even when the source lacked the
// column entirely.
type Table struct {
	PublishedAt []time.Time
	Title       []string
	TitleLower  []string
	Shows       []int64

	lists map[string][][]string
}

// NewTable returns an empty table carrying the full declared column set.
func NewTable(capacity int) *Table {
	t := &Table{
		PublishedAt: make([]time.Time, 0, capacity),
		Title:       make([]string, 0, capacity),
		TitleLower:  make([]string, 0, capacity),
		Shows:       make([]int64, 0, capacity),
		lists:       make(map[string][][]string, len(ListColumns)),
	}
	for _, col := range ListColumns {
		t.lists[col] = make([][]string, 0, capacity)
	}
	return t
}

// NumRows returns the row count of the table.
func (t *Table) NumRows() int {
	return len(t.Shows)
}

// List returns the values of a multi-valued column. The second result is
// false when the column is not one of the declared list columns.
func (t *Table) List(column string) ([][]string, bool) {
	vals, ok := t.lists[column]
	return vals, ok
}

// HasPublishedAt reports whether the row carries a valid timestamp.
func (t *Table) HasPublishedAt(row int) bool {
	return !t.PublishedAt[row].IsZero()
}

// AppendRow adds one fully-coerced record. titleLower is derived here so it
// can never drift out of sync with title. List columns missing from lists
// default to empty. Only loading code should grow a table; once handed to
// consumers it is read-only.
func (t *Table) AppendRow(publishedAt time.Time, title string, shows int64, lists map[string][]string) {
	t.PublishedAt = append(t.PublishedAt, publishedAt)
	t.Title = append(t.Title, title)
	t.TitleLower = append(t.TitleLower, strings.ToLower(title))
	t.Shows = append(t.Shows, shows)
	for _, col := range ListColumns {
		t.lists[col] = append(t.lists[col], lists[col])
	}
}

// Equal reports whether two tables hold identical data in every column.
// Nil and empty list cells compare equal.
func (t *Table) Equal(other *Table) bool {
	if t.NumRows() != other.NumRows() {
		return false
	}
	for i := 0; i < t.NumRows(); i++ {
		if !t.PublishedAt[i].Equal(other.PublishedAt[i]) {
			return false
		}
		if t.Title[i] != other.Title[i] || t.TitleLower[i] != other.TitleLower[i] || t.Shows[i] != other.Shows[i] {
			return false
		}
	}
	for _, col := range ListColumns {
		a, b := t.lists[col], other.lists[col]
		for i := range a {
			if len(a[i]) != len(b[i]) {
				return false
			}
			for j := range a[i] {
				if a[i][j] != b[i][j] {
					return false
				}
			}
		}
	}
	return true
}

// View is an immutable row selection over a table. It preserves row identity
// so derived views and filters can be layered without copying column data.
type View struct {
	table *Table
	rows  *roaring.Bitmap
}

// NewFullView selects every row of the table.
func NewFullView(t *Table) *View {
	rows := roaring.New()
	if n := t.NumRows(); n > 0 {
		rows.AddRange(0, uint64(n))
	}
	return &View{table: t, rows: rows}
}

// NewView wraps an explicit row selection. The bitmap is owned by the view
// after the call and must not be mutated by the caller.
func NewView(t *Table, rows *roaring.Bitmap) *View {
	return &View{table: t, rows: rows}
}

// Table returns the underlying canonical table.
func (v *View) Table() *Table {
	return v.table
}

// Len returns the number of selected rows.
func (v *View) Len() int {
	return int(v.rows.GetCardinality())
}

// Rows returns the selected row ids in ascending order.
func (v *View) Rows() []uint32 {
	return v.rows.ToArray()
}

// Bitmap returns the selection bitmap. Callers must treat it as read-only;
// use Clone before combining it with other bitmaps.
func (v *View) Bitmap() *roaring.Bitmap {
	return v.rows
}

// Each invokes fn for every selected row id in ascending order.
func (v *View) Each(fn func(row uint32)) {
	it := v.rows.Iterator()
	for it.HasNext() {
		fn(it.Next())
	}
}

// Equal reports whether two views select the same rows of the same table.
func (v *View) Equal(other *View) bool {
	return v.table == other.table && v.rows.Equals(other.rows)
}
