package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"newslens/listcell"
)

// DefaultChunkSize is the number of source rows processed per chunk when the
// caller does not specify one.
const DefaultChunkSize = 100_000

// Options controls how Load reads the source.
type Options struct {
	// CachePath, when set, names a Parquet cache artifact. An existing valid
	// cache is loaded instead of the source; otherwise the assembled table is
	// persisted there on a best-effort basis.
	CachePath string

	// ChunkSize is the number of rows per streaming chunk (default 100000).
	ChunkSize int

	// MaxRows caps the number of rows loaded (0 = uncapped). Capped loads use
	// a distinct cache identity so they never reuse a full-dataset cache.
	MaxRows int
}

// Load reads the tabular source (optionally compressed, optionally cached)
// into a canonical table. Per-cell coercion failures recover to defaults;
// only an unreadable or structurally unparsable source fails the load.
func Load(sourcePath string, opts Options) (*Table, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	cachePath := opts.CachePath
	if cachePath != "" && opts.MaxRows > 0 {
		cachePath = cappedCachePath(cachePath, opts.MaxRows)
	}

	if cachePath != "" {
		if table, ok := tryLoadCache(cachePath, sourcePath, opts.MaxRows); ok {
			slog.Info("loaded dataset from cache", "cache", cachePath, "rows", table.NumRows())
			return table, nil
		}
	}

	info, err := os.Stat(sourcePath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
	}

	src, err := openSource(sourcePath)
	if err != nil {
		if errors.Is(err, ErrMalformedSource) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, sourcePath, err)
	}
	defer src.Close()

	start := time.Now()
	table, err := readCSV(src, opts.ChunkSize, opts.MaxRows)
	if err != nil {
		return nil, err
	}
	slog.Info("dataset loaded",
		"source", sourcePath,
		"rows", table.NumRows(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if cachePath != "" {
		if err := writeCache(cachePath, table); err != nil {
			slog.Warn("dataset cache not persisted", "cache", cachePath, "error", err)
		} else {
			writeManifest(cachePath, sourcePath, opts.MaxRows, table.NumRows())
		}
	}
	return table, nil
}

// cappedCachePath derives a cache identity for row-capped loads so a capped
// load never silently reuses a full-dataset cache or vice versa.
func cappedCachePath(cachePath string, maxRows int) string {
	ext := filepath.Ext(cachePath)
	stem := strings.TrimSuffix(cachePath, ext)
	return fmt.Sprintf("%s_limit%d%s", stem, maxRows, ext)
}

// sourceAliases maps source header spellings to canonical column names.
// Canonical names map to themselves so re-exported data loads unchanged.
var sourceAliases = map[string]string{
	"dt":                     ColPublishedAt,
	"publication_title_name": ColTitle,
	"bad_verdicts_list":      ColBadVerdicts,
	"topics_verdicts_list":   ColTopicVerdicts,
	"country":                ColCountries,

	ColPublishedAt:   ColPublishedAt,
	ColTitle:         ColTitle,
	ColShows:         ColShows,
	ColBadVerdicts:   ColBadVerdicts,
	ColTopicVerdicts: ColTopicVerdicts,
	ColPersons:       ColPersons,
	ColOrganizations: ColOrganizations,
	ColLocations:     ColLocations,
	ColCountries:     ColCountries,
}

// readCSV streams the source in chunks, coercing every cell as it goes.
// Declared columns missing from the source are backfilled with defaults for
// every row, so the assembled table always carries the full column set.
func readCSV(r io.Reader, chunkSize, maxRows int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return NewTable(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	// Column index per canonical name; absence means the source lacks it.
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		if canonical, ok := sourceAliases[strings.TrimSpace(name)]; ok {
			if _, taken := colIndex[canonical]; !taken {
				colIndex[canonical] = i
			}
		}
	}

	table := NewTable(chunkSize)
	rows, chunkRows, chunks := 0, 0, 0
	for {
		if maxRows > 0 && rows >= maxRows {
			break
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedSource, rows+1, err)
		}

		appendSourceRow(table, colIndex, record)
		rows++
		chunkRows++
		if chunkRows == chunkSize {
			chunks++
			slog.Debug("dataset chunk read", "chunk", chunks, "rows", rows)
			chunkRows = 0
		}
	}
	return table, nil
}

// appendSourceRow coerces one source record into canonical fields. Cells the
// source does not carry default to absent/zero/empty.
func appendSourceRow(table *Table, colIndex map[string]int, record []string) {
	cell := func(canonical string) (string, bool) {
		i, ok := colIndex[canonical]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	var publishedAt time.Time
	if raw, ok := cell(ColPublishedAt); ok {
		publishedAt = parseTimestamp(raw)
	}

	title, _ := cell(ColTitle)

	var shows int64
	if raw, ok := cell(ColShows); ok {
		shows = parseShows(raw)
	}

	lists := make(map[string][]string, len(ListColumns))
	for _, col := range ListColumns {
		if raw, ok := cell(col); ok {
			lists[col] = listcell.Decode(raw)
		}
	}

	table.AppendRow(publishedAt, title, shows, lists)
}

// parseShows coerces a shows cell to a non-negative integer; anything the
// parser rejects (or a negative value) becomes 0.
func parseShows(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	// Exports sometimes carry shows as a float ("12.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int64(f)
	}
	return 0
}

// timestampLayouts is the ordered chain of accepted publishedAt encodings.
// Layouts without zone information are interpreted as UTC; zoned values are
// normalized to UTC so every timestamp compares on a single axis.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// parseTimestamp parses a publishedAt cell, returning the zero time (absent)
// when no layout matches. Invalid values are never defaulted to "now".
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
