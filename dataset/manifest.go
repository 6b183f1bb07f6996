package dataset

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// cacheManifest is a JSON sidecar recording what a cache artifact was built
// from. A cache whose manifest no longer matches its source is rebuilt; a
// cache without a manifest is still honored so artifacts produced by older
// builds keep working.
type cacheManifest struct {
	SourcePath    string    `json:"source_path"`
	SourceSize    int64     `json:"source_size"`
	SourceModTime time.Time `json:"source_mod_time"`
	MaxRows       int       `json:"max_rows"`
	Rows          int       `json:"rows"`
	CreatedAt     time.Time `json:"created_at"`
}

func manifestPath(cachePath string) string {
	return cachePath + ".manifest.json"
}

// manifestAllowsReuse reports whether the cache at cachePath may serve a load
// of sourcePath. When the source file itself is gone the cache still serves
// (the artifact is the only copy of the data left).
func manifestAllowsReuse(cachePath, sourcePath string, maxRows int) bool {
	data, err := os.ReadFile(manifestPath(cachePath))
	if err != nil {
		return true
	}
	var manifest cacheManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		slog.Warn("dataset cache manifest unreadable", "cache", cachePath, "error", err)
		return true
	}
	if manifest.MaxRows != maxRows {
		return false
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return true
	}
	return manifest.SourceSize == info.Size() && manifest.SourceModTime.Equal(info.ModTime())
}

// writeManifest records the source fingerprint next to a freshly written
// cache. Manifest failures are swallowed like cache failures: the cache
// simply degrades to existence-only validation.
func writeManifest(cachePath, sourcePath string, maxRows, rows int) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return
	}
	manifest := cacheManifest{
		SourcePath:    sourcePath,
		SourceSize:    info.Size(),
		SourceModTime: info.ModTime(),
		MaxRows:       maxRows,
		Rows:          rows,
		CreatedAt:     time.Now().UTC(),
	}
	data, err := json.MarshalIndent(&manifest, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(manifestPath(cachePath), data, 0o644); err != nil {
		slog.Warn("dataset cache manifest not persisted", "cache", cachePath, "error", err)
	}
}
