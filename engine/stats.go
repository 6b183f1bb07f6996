package engine

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"newslens/dataset"
)

// SummaryStats are the headline counters for a (possibly filtered) view.
type SummaryStats struct {
	Publications  int
	TotalShows    int64
	UniqueTopics  int
	UniquePersons int
}

// Stats computes the headline counters: row count, summed shows, and the
// number of distinct topic verdicts and persons mentioned.
func Stats(v *dataset.View) SummaryStats {
	table := v.Table()
	stats := SummaryStats{Publications: v.Len()}
	topics := make(map[string]bool)
	persons := make(map[string]bool)
	topicLists, _ := table.List(dataset.ColTopicVerdicts)
	personLists, _ := table.List(dataset.ColPersons)
	v.Each(func(row uint32) {
		stats.TotalShows += table.Shows[row]
		for _, t := range topicLists[row] {
			topics[t] = true
		}
		for _, p := range personLists[row] {
			persons[p] = true
		}
	})
	stats.UniqueTopics = len(topics)
	stats.UniquePersons = len(persons)
	return stats
}

// NewsItem is one publication in a top-news listing.
type NewsItem struct {
	PublishedAt time.Time // zero when absent
	Title       string
	Shows       int64
}

// TopNews returns the view's n rows with the most shows, descending, with
// ties kept in row order.
func TopNews(v *dataset.View, n int) []NewsItem {
	table := v.Table()
	items := make([]NewsItem, 0, v.Len())
	v.Each(func(row uint32) {
		items = append(items, NewsItem{
			PublishedAt: table.PublishedAt[row],
			Title:       table.Title[row],
			Shows:       table.Shows[row],
		})
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Shows > items[j].Shows
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// CorpusText assembles the view's free text — titles, topic verdicts and bad
// verdicts — into one space-joined string for word-frequency consumers.
func CorpusText(v *dataset.View) string {
	table := v.Table()
	topicLists, _ := table.List(dataset.ColTopicVerdicts)
	badLists, _ := table.List(dataset.ColBadVerdicts)
	var parts []string
	v.Each(func(row uint32) {
		if table.Title[row] != "" {
			parts = append(parts, table.Title[row])
		}
	})
	v.Each(func(row uint32) {
		parts = append(parts, topicLists[row]...)
	})
	v.Each(func(row uint32) {
		parts = append(parts, badLists[row]...)
	})
	return strings.Join(parts, " ")
}

// DefaultStopwords are dropped from word frequencies (mixed English/Russian,
// matching the dashboard's word cloud).
var DefaultStopwords = map[string]bool{
	"the": true, "and": true, "to": true, "of": true,
	"в": true, "на": true, "и": true, "по": true,
}

// WordFrequencies lowercases the text, splits it on non-alphanumeric runes
// and counts the remaining words, skipping stopwords and single characters.
func WordFrequencies(text string, stopwords map[string]bool) map[string]int {
	freq := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		if len([]rune(word)) < 2 || stopwords[word] {
			continue
		}
		freq[word]++
	}
	return freq
}
