package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"newslens/dataset"
)

// config carries the environment-driven defaults; command-line flags
// override every field.
type config struct {
	DataPath  string
	CachePath string
	ChunkSize int
	MaxRows   int
	LogLevel  string
	LogFormat string
}

// loadConfig reads .env (when present) and the process environment.
func loadConfig() config {
	_ = godotenv.Load()
	return config{
		DataPath:  envString("DATA_PATH", "Geo_Data.csv"),
		CachePath: envString("CACHE_PATH", "news_cache.parquet"),
		ChunkSize: envInt("CHUNK_SIZE", dataset.DefaultChunkSize),
		MaxRows:   envInt("MAX_ROWS", 0),
		LogLevel:  envString("LOG_LEVEL", "info"),
		LogFormat: envString("LOG_FORMAT", "text"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
