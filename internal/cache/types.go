package cache

import (
	"errors"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheClosed is returned when the disk cache has been closed
	ErrCacheClosed = errors.New("cache is closed")
)

// Level represents the cache tier
type Level int

const (
	// LevelMemory is the in-process LRU
	LevelMemory Level = iota

	// LevelDisk is the persistent, compressed store
	LevelDisk
)

// String returns the string representation of the cache level
func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache performance metrics
type Stats struct {
	Level    Level
	Capacity int64 // Maximum capacity in bytes

	Size      int64 // Current size in bytes
	ItemCount int64 // Number of items in cache

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
}

func (s *Stats) updateHitRate() {
	if s.Hits+s.Misses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Hits+s.Misses)
	}
}

// Config holds configuration for a two-level cache
type Config struct {
	MemoryCapacity   int64  // Bytes
	DiskCapacity     int64  // Bytes, 0 disables the disk level
	DiskPath         string // Directory for cache files
	CompressionLevel int    // Zstd level (1-22), 0 disables compression
}

// DefaultConfig returns the default cache configuration without a disk path.
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   1 << 20,
		DiskCapacity:     16 << 20,
		CompressionLevel: 3,
	}
}

// Cache defines the operations shared by every level
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Contains(key string) bool
	Size() int64
	Stats() Stats
}
