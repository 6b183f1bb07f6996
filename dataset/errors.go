package dataset

import "fmt"

// Sentinel errors returned (wrapped) by Load. Per-cell coercion failures are
// never surfaced as errors; they recover to well-defined defaults.
var (
	// ErrSourceNotFound marks a source path that does not resolve to a
	// readable file. Fatal.
	ErrSourceNotFound = fmt.Errorf("source not found")

	// ErrMalformedSource marks a source whose tabular structure cannot be
	// parsed at all. Missing columns are not malformed. Fatal.
	ErrMalformedSource = fmt.Errorf("malformed source")

	// ErrCachePersist marks a failed cache write. Non-fatal: the cache is an
	// optimization, so Load logs and swallows it.
	ErrCachePersist = fmt.Errorf("cache persist failed")
)
