// Package cache stores pipeline results keyed by a hash of their inputs.
//
// Fixing or auditing the same event model twice with the same options gives
// the same output, so [pipeline.Runner] can serve repeated runs from a
// [Cache]. Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (weavr serve behind a load balancer)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend agrees on naming.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as (nil, false, nil), never as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Default expiry for cached results.
const (
	TTLFix   = 7 * 24 * time.Hour
	TTLAudit = 7 * 24 * time.Hour
)

// Keyer generates cache keys for pipeline results.
type Keyer interface {
	// FixKey names the fixed document produced from an input with the given
	// content hash and layout options.
	FixKey(inputHash string, opts FixKeyOpts) string

	// AuditKey names the audit report of an input with the given content hash.
	AuditKey(inputHash string) string
}

// FixKeyOpts holds the layout options that change a fix result.
type FixKeyOpts struct {
	SliceWidth int            `json:"slice_width"`
	SliceGap   int            `json:"slice_gap"`
	RowHeight  int            `json:"row_height"`
	BaseY      int            `json:"base_y"`
	Height     int            `json:"height"`
	Columns    map[string]int `json:"columns,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FixKey hashes the input hash together with the layout options.
func (DefaultKeyer) FixKey(inputHash string, opts FixKeyOpts) string {
	return hashKey("fix", inputHash, opts)
}

// AuditKey hashes the input hash.
func (DefaultKeyer) AuditKey(inputHash string) string {
	return hashKey("audit", inputHash)
}
