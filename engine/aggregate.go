package engine

import (
	"sort"
	"strings"
	"time"

	"newslens/dataset"
)

// DayStat is one calendar date's totals.
type DayStat struct {
	Date         time.Time // UTC midnight
	Publications int
	Shows        int64
}

// DailySummary holds per-date totals sorted by date ascending.
type DailySummary []DayStat

// AggregateByDay groups the view's rows by calendar date (time of day
// discarded), counting publications and summing shows per date. Rows with an
// absent publishedAt are excluded, not bucketed into a sentinel date. An
// empty or all-absent view yields an empty summary.
func AggregateByDay(v *dataset.View) DailySummary {
	table := v.Table()
	index := make(map[time.Time]int)
	var summary DailySummary
	v.Each(func(row uint32) {
		if !table.HasPublishedAt(int(row)) {
			return
		}
		ts := table.PublishedAt[row].UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		i, ok := index[date]
		if !ok {
			i = len(summary)
			index[date] = i
			summary = append(summary, DayStat{Date: date})
		}
		summary[i].Publications++
		summary[i].Shows += table.Shows[row]
	})
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Date.Before(summary[j].Date)
	})
	return summary
}

// EntityStat is one entity's totals across an exploded view.
type EntityStat struct {
	Value    string
	Mentions int
	Shows    int64
}

// EntityRanking is sorted by mentions descending, then shows descending,
// with remaining ties kept in first-seen order.
type EntityRanking []EntityStat

// RankEntities groups an exploded view by entity value and returns the top
// topN entities. topN <= 0 means unbounded.
func RankEntities(ev *ExplodedView, topN int) EntityRanking {
	return rank(ev, topN, false)
}

// RankCountries ranks every country, unbounded, trimming values before
// grouping so whitespace variants merge. Used for map rendering.
func RankCountries(ev *ExplodedView) EntityRanking {
	return rank(ev, 0, true)
}

func rank(ev *ExplodedView, topN int, normalize bool) EntityRanking {
	index := make(map[string]int)
	var ranking EntityRanking
	for i, value := range ev.Values {
		if normalize {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
		}
		j, ok := index[value]
		if !ok {
			j = len(ranking)
			index[value] = j
			ranking = append(ranking, EntityStat{Value: value})
		}
		ranking[j].Mentions++
		ranking[j].Shows += ev.Shows[i]
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Mentions != ranking[j].Mentions {
			return ranking[i].Mentions > ranking[j].Mentions
		}
		return ranking[i].Shows > ranking[j].Shows
	})
	if topN > 0 && len(ranking) > topN {
		ranking = ranking[:topN]
	}
	return ranking
}
