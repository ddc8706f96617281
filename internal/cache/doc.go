// Package cache provides a two-level byte cache: an in-memory LRU (L1) in
// front of a zstd-compressed disk store (L2) that survives restarts. It holds
// translated text keyed by a digest of the source text.
package cache
