package engine

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"newslens/dataset"
)

// FilterState is an immutable filter snapshot. Zero date bounds are
// unbounded; an empty selection set places no constraint on its dimension.
// The owning caller constructs a fresh snapshot per interaction; Apply never
// retains or mutates one.
type FilterState struct {
	StartDate time.Time
	EndDate   time.Time

	Persons       map[string]bool
	Organizations map[string]bool
	Countries     map[string]bool
}

// NewStringSet builds a selection set from its arguments.
func NewStringSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// IsEmpty reports whether the state constrains nothing.
func (s FilterState) IsEmpty() bool {
	return s.StartDate.IsZero() && s.EndDate.IsZero() &&
		len(s.Persons) == 0 && len(s.Organizations) == 0 && len(s.Countries) == 0
}

// Apply evaluates the filter against a view and returns the passing subset
// as a new view over the same table. Predicates compose as a logical AND:
// date bounds are inclusive and fail rows with an absent publishedAt;
// set-membership constraints pass rows whose column intersects the selected
// set. Applying the same state twice is a no-op on the second application.
func Apply(v *dataset.View, state FilterState) *dataset.View {
	if v.Len() == 0 {
		return v
	}

	mask := v.Bitmap().Clone()
	if !state.StartDate.IsZero() || !state.EndDate.IsZero() {
		mask.And(dateMask(v, state.StartDate, state.EndDate))
	}
	for _, constraint := range []struct {
		column   string
		selected map[string]bool
	}{
		{dataset.ColPersons, state.Persons},
		{dataset.ColOrganizations, state.Organizations},
		{dataset.ColCountries, state.Countries},
	} {
		if len(constraint.selected) == 0 {
			continue
		}
		mask.And(intersectionMask(v, constraint.column, constraint.selected))
	}
	return dataset.NewView(v.Table(), mask)
}

// dateMask selects the view's rows whose publishedAt satisfies the active
// bounds. Rows without a timestamp fail any active date bound.
func dateMask(v *dataset.View, start, end time.Time) *roaring.Bitmap {
	table := v.Table()
	mask := roaring.New()
	v.Each(func(row uint32) {
		if !table.HasPublishedAt(int(row)) {
			return
		}
		ts := table.PublishedAt[row]
		if !start.IsZero() && ts.Before(start) {
			return
		}
		if !end.IsZero() && ts.After(end) {
			return
		}
		mask.Add(row)
	})
	return mask
}

// intersectionMask selects the view's rows whose multi-valued column shares
// at least one value with the selected set.
func intersectionMask(v *dataset.View, column string, selected map[string]bool) *roaring.Bitmap {
	table := v.Table()
	mask := roaring.New()
	lists, ok := table.List(column)
	if !ok {
		return mask
	}
	v.Each(func(row uint32) {
		for _, value := range lists[row] {
			if selected[value] {
				mask.Add(row)
				return
			}
		}
	})
	return mask
}

// ExtractUniqueValues flattens a multi-valued column across all rows,
// dropping empties and duplicates, and returns the values sorted ascending.
// The result is deterministic for a given table; it feeds selection widgets.
func ExtractUniqueValues(t *dataset.Table, column string) []string {
	lists, ok := t.List(column)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	for _, row := range lists {
		for _, value := range row {
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}
