// Package cache stores rendered dump artifacts so repeated exports of an
// unchanged graph file are served without re-running the printer.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key under a local directory
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are produced by a [Keyer] and never contain raw user input; every
// component that influences the artifact bytes is hashed into the key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered artifact of a graph file.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format         string  `json:"format"`
	ScheduleOnDump bool    `json:"schedule_on_dump"`
	Probabilities  bool    `json:"probabilities"`
	ReportingError string  `json:"reporting_error"`
	Detailed       bool    `json:"detailed"`
	LoopFrequency  float64 `json:"loop_frequency"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
