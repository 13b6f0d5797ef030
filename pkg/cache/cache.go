// Package cache provides the layout cache used by the pipeline.
//
// Computing a layout is deterministic, so results are cached by a content
// hash of the tree plus the layout options. Three backends share one
// interface: a file cache for CLI use, a Redis cache for server deployments,
// and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the common interface for all cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present (a miss is not an error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the options that participate in a layout cache key.
// Any option that changes layout output must appear here.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	UseLengths bool    `json:"use_lengths"`
}

// Keyer derives cache keys for the cacheable pipeline stages.
type Keyer interface {
	// TreeKey generates a key for a parsed tree, from a hash of its Newick
	// source.
	TreeKey(newickHash string) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key derivation: a stable prefix plus a
// SHA-256 hash over the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TreeKey generates a key for tree caching.
func (k *DefaultKeyer) TreeKey(newickHash string) string {
	return hashKey("tree", newickHash)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// one backend is shared (e.g. several phyloscope instances on one Redis).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(newickHash string) string {
	return k.prefix + k.inner.TreeKey(newickHash)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// hashKey builds a "stage:digest" cache key, where the digest is the full
// SHA-256 over the JSON encoding of the parts. The stage prefix keeps tree
// and layout entries from ever colliding even for identical inputs.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", stage, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. The
// pipeline uses it to fingerprint Newick sources before key derivation.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
