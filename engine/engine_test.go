package engine

import (
	"testing"
	"time"

	"newslens/dataset"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

// testTable builds the shared fixture:
//
//	row 0: 2024-01-01 10:00  shows=5  persons=[Alice]      countries=[Germany]
//	row 1: 2024-01-01 18:00  shows=3  persons=[Alice, Bob] countries=[France]
//	row 2: 2024-01-02 08:00  shows=7  persons=[Bob]        countries=[Germany, France]
//	row 3: absent date       shows=2  persons=[]           countries=[]
func testTable() *dataset.Table {
	t := dataset.NewTable(4)
	t.AppendRow(at(1, 10), "Rally Continues", 5, map[string][]string{
		dataset.ColPersons:       {"Alice"},
		dataset.ColOrganizations: {"Acme"},
		dataset.ColCountries:     {"Germany"},
		dataset.ColTopicVerdicts: {"economy"},
	})
	t.AppendRow(at(1, 18), "Tech Earnings", 3, map[string][]string{
		dataset.ColPersons:       {"Alice", "Bob"},
		dataset.ColCountries:     {"France"},
		dataset.ColTopicVerdicts: {"economy", "tech"},
	})
	t.AppendRow(at(2, 8), "Storm Warning", 7, map[string][]string{
		dataset.ColPersons:     {"Bob"},
		dataset.ColCountries:   {"Germany", "France"},
		dataset.ColBadVerdicts: {"panic"},
	})
	t.AppendRow(time.Time{}, "Undated Note", 2, nil)
	return t
}

func fullView() *dataset.View {
	return dataset.NewFullView(testTable())
}

func TestExplode(t *testing.T) {
	ev := Explode(fullView(), dataset.ColPersons)

	wantValues := []string{"Alice", "Alice", "Bob", "Bob"}
	wantRows := []uint32{0, 1, 1, 2}
	wantShows := []int64{5, 3, 3, 7}
	if ev.Len() != len(wantValues) {
		t.Fatalf("Len = %d, want %d", ev.Len(), len(wantValues))
	}
	for i := range wantValues {
		if ev.Values[i] != wantValues[i] || ev.RowIDs[i] != wantRows[i] || ev.Shows[i] != wantShows[i] {
			t.Errorf("entry %d = (%q, row %d, shows %d), want (%q, row %d, shows %d)",
				i, ev.Values[i], ev.RowIDs[i], ev.Shows[i], wantValues[i], wantRows[i], wantShows[i])
		}
	}
	if !ev.PublishedAt[0].Equal(at(1, 10)) {
		t.Errorf("PublishedAt[0] = %v", ev.PublishedAt[0])
	}
}

func TestExplode_UnknownColumn(t *testing.T) {
	ev := Explode(fullView(), "nope")
	if ev.Len() != 0 || ev.Column != "nope" {
		t.Errorf("unknown column should yield an empty shaped view, got %+v", ev)
	}
}

func TestAggregateByDay(t *testing.T) {
	summary := AggregateByDay(fullView())

	if len(summary) != 2 {
		t.Fatalf("len = %d, want 2 (absent dates excluded)", len(summary))
	}
	if !summary[0].Date.Equal(day(1)) || summary[0].Publications != 2 || summary[0].Shows != 8 {
		t.Errorf("day 1 = %+v, want (2024-01-01, 2, 8)", summary[0])
	}
	if !summary[1].Date.Equal(day(2)) || summary[1].Publications != 1 || summary[1].Shows != 7 {
		t.Errorf("day 2 = %+v, want (2024-01-02, 1, 7)", summary[1])
	}
}

func TestAggregateByDay_Empty(t *testing.T) {
	empty := dataset.NewTable(0)
	if got := AggregateByDay(dataset.NewFullView(empty)); len(got) != 0 {
		t.Errorf("empty table summary = %+v", got)
	}

	undated := dataset.NewTable(1)
	undated.AppendRow(time.Time{}, "x", 1, nil)
	if got := AggregateByDay(dataset.NewFullView(undated)); len(got) != 0 {
		t.Errorf("all-absent summary = %+v", got)
	}
}

func TestRankEntities(t *testing.T) {
	ev := &ExplodedView{
		Column: dataset.ColPersons,
		Values: []string{"A", "A", "B"},
		Shows:  []int64{1, 1, 2},
	}
	ranking := RankEntities(ev, 0)
	if len(ranking) != 2 {
		t.Fatalf("len = %d", len(ranking))
	}
	if ranking[0].Value != "A" || ranking[0].Mentions != 2 || ranking[0].Shows != 2 {
		t.Errorf("first = %+v, want A(2, 2)", ranking[0])
	}
	if ranking[1].Value != "B" || ranking[1].Mentions != 1 || ranking[1].Shows != 2 {
		t.Errorf("second = %+v, want B(1, 2)", ranking[1])
	}
}

func TestRankEntities_TiesKeepFirstSeenOrder(t *testing.T) {
	ev := &ExplodedView{
		Values: []string{"X", "Y", "Z"},
		Shows:  []int64{4, 4, 4},
	}
	ranking := RankEntities(ev, 2)
	if len(ranking) != 2 || ranking[0].Value != "X" || ranking[1].Value != "Y" {
		t.Errorf("ranking = %+v, want first-seen order X, Y", ranking)
	}
}

func TestRankCountries_MergesWhitespaceVariants(t *testing.T) {
	ev := &ExplodedView{
		Column: dataset.ColCountries,
		Values: []string{"Germany", " Germany ", "France"},
		Shows:  []int64{1, 2, 3},
	}
	ranking := RankCountries(ev)
	if len(ranking) != 2 {
		t.Fatalf("len = %d, want 2", len(ranking))
	}
	if ranking[0].Value != "Germany" || ranking[0].Mentions != 2 || ranking[0].Shows != 3 {
		t.Errorf("first = %+v, want Germany(2, 3)", ranking[0])
	}
}

func TestApply_EmptyStateIsIdentity(t *testing.T) {
	v := fullView()
	filtered := Apply(v, FilterState{})
	if !filtered.Equal(v) {
		t.Errorf("empty state changed the view: %d of %d rows", filtered.Len(), v.Len())
	}
}

func TestApply_PersonConstraint(t *testing.T) {
	v := fullView()
	filtered := Apply(v, FilterState{Persons: NewStringSet("Alice")})
	rows := filtered.Rows()
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 1 {
		t.Errorf("rows = %v, want [0 1]", rows)
	}
}

func TestApply_DateBounds(t *testing.T) {
	v := fullView()

	// Lower bound: rows on or after 2024-01-02; the undated row fails.
	filtered := Apply(v, FilterState{StartDate: day(2)})
	if rows := filtered.Rows(); len(rows) != 1 || rows[0] != 2 {
		t.Errorf("start-bound rows = %v, want [2]", rows)
	}

	// Upper bound at 2024-01-01 midnight keeps nothing later that day.
	filtered = Apply(v, FilterState{EndDate: day(1)})
	if rows := filtered.Rows(); len(rows) != 0 {
		t.Errorf("midnight end-bound rows = %v, want none", rows)
	}

	// Upper bound at 2024-01-02 keeps both 01-01 rows and the 08:00 row.
	filtered = Apply(v, FilterState{EndDate: at(2, 8)})
	if rows := filtered.Rows(); len(rows) != 3 {
		t.Errorf("end-bound rows = %v, want 3 rows", rows)
	}
}

func TestApply_ConstraintsCompose(t *testing.T) {
	v := fullView()
	filtered := Apply(v, FilterState{
		Persons:   NewStringSet("Alice", "Bob"),
		Countries: NewStringSet("France"),
		StartDate: day(1),
		EndDate:   at(2, 23),
	})
	rows := filtered.Rows()
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Errorf("rows = %v, want [1 2]", rows)
	}
}

func TestApply_Idempotent(t *testing.T) {
	v := fullView()
	states := []FilterState{
		{},
		{Persons: NewStringSet("Alice")},
		{StartDate: day(1), EndDate: day(2), Countries: NewStringSet("Germany")},
		{Persons: NewStringSet("Nobody")},
	}
	for _, s := range states {
		once := Apply(v, s)
		twice := Apply(once, s)
		if !twice.Equal(once) {
			t.Errorf("state %+v is not idempotent: %d then %d rows", s, once.Len(), twice.Len())
		}
	}
}

func TestApply_EmptyViewIsNoOp(t *testing.T) {
	empty := dataset.NewFullView(dataset.NewTable(0))
	if got := Apply(empty, FilterState{Persons: NewStringSet("Alice")}); got != empty {
		t.Error("empty view should be returned unchanged")
	}
}

func TestExtractUniqueValues(t *testing.T) {
	values := ExtractUniqueValues(testTable(), dataset.ColCountries)
	want := []string{"France", "Germany"}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %q, want %q", i, values[i], want[i])
		}
	}
	if got := ExtractUniqueValues(testTable(), "nope"); got != nil {
		t.Errorf("unknown column = %v, want nil", got)
	}
}

func TestModel_PrecomputesDerivedViews(t *testing.T) {
	table := testTable()
	model := NewModel(table)
	full := dataset.NewFullView(table)

	if model.Persons.Len() != Explode(full, dataset.ColPersons).Len() {
		t.Error("persons exploded view differs from direct explode")
	}
	if model.Countries.Len() != 4 {
		t.Errorf("countries entries = %d, want 4", model.Countries.Len())
	}
	if len(model.Daily) != 2 {
		t.Errorf("daily days = %d, want 2", len(model.Daily))
	}
}

func TestModel_RefreshDailyStats(t *testing.T) {
	model := NewModel(testTable())
	filtered := Apply(model.FullView(), FilterState{Countries: NewStringSet("France")})

	daily := model.RefreshDailyStats(filtered)
	if len(daily) != 2 || daily[0].Publications != 1 || daily[1].Publications != 1 {
		t.Errorf("filtered daily = %+v", daily)
	}
	if len(model.Daily) != len(daily) {
		t.Error("model should hold the refreshed summary")
	}
}

func TestSharedModel_Replace(t *testing.T) {
	first := NewModel(testTable())
	shared := NewSharedModel(first)
	if shared.Current() != first {
		t.Fatal("Current should return the initial model")
	}
	second := NewModel(dataset.NewTable(0))
	shared.Replace(second)
	if shared.Current() != second {
		t.Error("Replace should install the new model")
	}
}
