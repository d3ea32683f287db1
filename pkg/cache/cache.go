// Package cache stores engine transcripts and rendered artifacts.
//
// Running the engine dominates the cost of a visualization, and its output is
// a pure function of the program text, the query and the goal template. The
// pipeline therefore caches transcripts under a [Keyer] key derived from those
// inputs. Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for `argviz serve` deployments
//   - [NullCache]: disables caching
//
// Entries carry an optional TTL; expired entries read as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with expiration.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	TranscriptTTL = 7 * 24 * time.Hour
	ArtifactTTL   = 24 * time.Hour
)
