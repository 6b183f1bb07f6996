package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// cacheWriteBatch is the number of rows handed to the Parquet writer at a
// time while persisting the cache.
const cacheWriteBatch = 10_000

// cacheRecord is the row shape of the Parquet cache artifact. Timestamps are
// stored as optional UTC microseconds so absent values round-trip losslessly.
type cacheRecord struct {
	PublishedAt   *int64   `parquet:"published_at,optional"`
	Title         string   `parquet:"title"`
	TitleLower    string   `parquet:"title_lower"`
	Shows         int64    `parquet:"shows"`
	BadVerdicts   []string `parquet:"bad_verdicts,list"`
	TopicVerdicts []string `parquet:"topic_verdicts,list"`
	Persons       []string `parquet:"persons,list"`
	Organizations []string `parquet:"organizations,list"`
	Locations     []string `parquet:"locations,list"`
	Countries     []string `parquet:"countries,list"`
}

// tryLoadCache loads the canonical table from an existing cache artifact.
// It reports false when the cache is absent, stale per its manifest, or
// unreadable; the caller then falls back to the textual source.
func tryLoadCache(cachePath, sourcePath string, maxRows int) (*Table, bool) {
	if _, err := os.Stat(cachePath); err != nil {
		return nil, false
	}
	if !manifestAllowsReuse(cachePath, sourcePath, maxRows) {
		slog.Info("dataset cache is stale, reloading source", "cache", cachePath)
		return nil, false
	}

	records, err := parquet.ReadFile[cacheRecord](cachePath)
	if err != nil {
		slog.Warn("dataset cache unreadable, reloading source", "cache", cachePath, "error", err)
		return nil, false
	}

	table := NewTable(len(records))
	for _, rec := range records {
		var publishedAt time.Time
		if rec.PublishedAt != nil {
			publishedAt = time.UnixMicro(*rec.PublishedAt).UTC()
		}
		table.AppendRow(publishedAt, rec.Title, rec.Shows, map[string][]string{
			ColBadVerdicts:   rec.BadVerdicts,
			ColTopicVerdicts: rec.TopicVerdicts,
			ColPersons:       rec.Persons,
			ColOrganizations: rec.Organizations,
			ColLocations:     rec.Locations,
			ColCountries:     rec.Countries,
		})
	}
	return table, true
}

// writeCache persists the table as Parquet. The artifact is written to a
// uniquely-named temp file and renamed into place so a failed write never
// leaves a truncated cache behind.
func writeCache(cachePath string, table *Table) error {
	tmpPath := fmt.Sprintf("%s.%s.tmp", cachePath, uuid.NewString())
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}

	writer := parquet.NewGenericWriter[cacheRecord](file)
	n := table.NumRows()
	for start := 0; start < n; start += cacheWriteBatch {
		end := start + cacheWriteBatch
		if end > n {
			end = n
		}
		batch := make([]cacheRecord, 0, end-start)
		for row := start; row < end; row++ {
			batch = append(batch, toCacheRecord(table, row))
		}
		if _, err := writer.Write(batch); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("%w: %v", ErrCachePersist, err)
		}
	}
	if err := writer.Close(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	return nil
}

func toCacheRecord(table *Table, row int) cacheRecord {
	rec := cacheRecord{
		Title:      table.Title[row],
		TitleLower: table.TitleLower[row],
		Shows:      table.Shows[row],
	}
	if table.HasPublishedAt(row) {
		micros := table.PublishedAt[row].UTC().UnixMicro()
		rec.PublishedAt = &micros
	}
	lists, _ := table.List(ColBadVerdicts)
	rec.BadVerdicts = lists[row]
	lists, _ = table.List(ColTopicVerdicts)
	rec.TopicVerdicts = lists[row]
	lists, _ = table.List(ColPersons)
	rec.Persons = lists[row]
	lists, _ = table.List(ColOrganizations)
	rec.Organizations = lists[row]
	lists, _ = table.List(ColLocations)
	rec.Locations = lists[row]
	lists, _ = table.List(ColCountries)
	rec.Countries = lists[row]
	return rec
}
