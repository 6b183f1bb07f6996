// Command newslens loads the news-mentions dataset, applies an optional
// filter and prints the aggregates a dashboard would render: daily summary,
// entity rankings, country mentions and top news.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"newslens/dataset"
	"newslens/engine"
	"newslens/listcell"
	"newslens/logging"
)

func main() {
	cfg := loadConfig()

	var (
		dataPath      = flag.String("data", cfg.DataPath, "Path to the CSV source (optionally .zip/.gz/.zst/.sz)")
		cachePath     = flag.String("cache", cfg.CachePath, "Path to the Parquet cache (empty disables caching)")
		chunkSize     = flag.Int("chunk-size", cfg.ChunkSize, "Rows per streaming chunk")
		maxRows       = flag.Int("max-rows", cfg.MaxRows, "Cap on rows to load (0 = all)")
		persons       = flag.String("persons", "", "Comma-separated person filter")
		organizations = flag.String("organizations", "", "Comma-separated organization filter")
		countries     = flag.String("countries", "", "Comma-separated country filter")
		from          = flag.String("from", "", "Start date filter (YYYY-MM-DD, inclusive)")
		to            = flag.String("to", "", "End date filter (YYYY-MM-DD, inclusive)")
		top           = flag.Int("top", 5, "Entities per ranking")
		logLevel      = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
		logFormat     = flag.String("log-format", cfg.LogFormat, "Log format: text, json")
	)
	flag.Parse()

	logging.Setup(*logLevel, *logFormat)

	table, err := dataset.Load(*dataPath, dataset.Options{
		CachePath: *cachePath,
		ChunkSize: *chunkSize,
		MaxRows:   *maxRows,
	})
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}

	shared := engine.NewSharedModel(engine.NewModel(table))
	model := shared.Current()

	state, err := buildFilterState(*persons, *organizations, *countries, *from, *to)
	if err != nil {
		log.Fatalf("bad filter: %v", err)
	}

	view := engine.Apply(model.FullView(), state)
	daily := model.RefreshDailyStats(view)
	stats := engine.Stats(view)

	fmt.Printf("Rows: %d of %d\n", view.Len(), table.NumRows())
	fmt.Printf("Shows: %d  Unique topics: %d  Unique persons: %d\n",
		stats.TotalShows, stats.UniqueTopics, stats.UniquePersons)

	if len(daily) > 0 {
		first, last := daily[0], daily[len(daily)-1]
		fmt.Printf("Dates: %s .. %s (%d days)\n",
			first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"), len(daily))
	}

	printRanking("Top persons", engine.RankEntities(engine.Explode(view, dataset.ColPersons), *top))
	printRanking("Top organizations", engine.RankEntities(engine.Explode(view, dataset.ColOrganizations), *top))
	printRanking("Top locations", engine.RankEntities(engine.Explode(view, dataset.ColLocations), *top))

	countryRanking := engine.RankCountries(engine.Explode(view, dataset.ColCountries))
	if len(countryRanking) > *top {
		countryRanking = countryRanking[:*top]
	}
	printRanking("Top countries", countryRanking)

	fmt.Println("Top news:")
	for _, item := range engine.TopNews(view, 10) {
		date := "-"
		if !item.PublishedAt.IsZero() {
			date = item.PublishedAt.Format("2006-01-02")
		}
		fmt.Printf("  %s  %8d  %s\n", date, item.Shows, listcell.FormatWith([]string{item.Title}, "(untitled)"))
	}
}

// buildFilterState parses the filter flags into an immutable snapshot.
func buildFilterState(persons, organizations, countries, from, to string) (engine.FilterState, error) {
	state := engine.FilterState{
		Persons:       engine.NewStringSet(splitList(persons)...),
		Organizations: engine.NewStringSet(splitList(organizations)...),
		Countries:     engine.NewStringSet(splitList(countries)...),
	}
	if from != "" {
		ts, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid -from date %q: %w", from, err)
		}
		state.StartDate = ts
	}
	if to != "" {
		ts, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid -to date %q: %w", to, err)
		}
		state.EndDate = ts
	}
	return state, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printRanking(title string, ranking engine.EntityRanking) {
	fmt.Printf("%s:\n", title)
	if len(ranking) == 0 {
		fmt.Printf("  %s\n", listcell.Placeholder)
		return
	}
	for _, entity := range ranking {
		fmt.Printf("  %-40s mentions=%-6d shows=%d\n", entity.Value, entity.Mentions, entity.Shows)
	}
}
