package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Manager layers a MemoryCache over an optional DiskCache. Disk hits are
// promoted into memory.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache

	mu    sync.Mutex
	stats ManagerStats
}

// ManagerStats aggregates hits across both levels.
type ManagerStats struct {
	Memory Stats
	Disk   Stats

	TotalHits   int64
	TotalMisses int64
	Promotions  int64
}

// NewManager creates the cache levels described by cfg. The disk level is
// skipped when cfg.DiskPath is empty or cfg.DiskCapacity is zero.
func NewManager(cfg Config) (*Manager, error) {
	m := &Manager{memory: NewMemoryCache(cfg.MemoryCapacity)}

	if cfg.DiskPath != "" && cfg.DiskCapacity > 0 {
		disk, err := NewDiskCache(cfg.DiskPath, cfg.DiskCapacity, cfg.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		m.disk = disk
	}
	return m, nil
}

// Get checks memory first, then disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, ok := m.memory.Get(key); ok {
		m.stats.TotalHits++
		return data, true
	}

	if m.disk != nil {
		if data, ok := m.disk.Get(key); ok {
			m.stats.TotalHits++
			if m.memory.Put(key, data) == nil {
				m.stats.Promotions++
			}
			return data, true
		}
	}

	m.stats.TotalMisses++
	return nil, false
}

// Put stores the value in every level. A value too large for memory still
// goes to disk.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if m.disk != nil {
		if err := m.disk.Put(key, value); err != nil {
			return fmt.Errorf("disk cache: %w", err)
		}
	}
	return nil
}

// Delete removes key from every level.
func (m *Manager) Delete(key string) error {
	_ = m.memory.Delete(key)
	if m.disk != nil {
		return m.disk.Delete(key)
	}
	return nil
}

// Clear empties every level.
func (m *Manager) Clear() error {
	_ = m.memory.Clear()
	if m.disk != nil {
		return m.disk.Clear()
	}
	return nil
}

// Prune drops disk entries created before cutoff. Memory is cleared so a
// pruned entry cannot be served from the front level.
func (m *Manager) Prune(cutoff time.Time) (int, error) {
	if m.disk == nil {
		return 0, nil
	}
	_ = m.memory.Clear()
	return m.disk.RemoveOlderThan(cutoff)
}

// Contains reports whether any level holds key.
func (m *Manager) Contains(key string) bool {
	return m.memory.Contains(key) || (m.disk != nil && m.disk.Contains(key))
}

// Size returns the bytes held in memory plus on disk.
func (m *Manager) Size() int64 {
	size := m.memory.Size()
	if m.disk != nil {
		size += m.disk.Size()
	}
	return size
}

// HasDisk reports whether a disk level is configured.
func (m *Manager) HasDisk() bool {
	return m.disk != nil
}

// Stats returns statistics for both levels.
func (m *Manager) Stats() ManagerStats {
	m.mu.Lock()
	stats := m.stats
	m.mu.Unlock()

	stats.Memory = m.memory.Stats()
	if m.disk != nil {
		stats.Disk = m.disk.Stats()
	}
	return stats
}

// Close flushes the disk index.
func (m *Manager) Close() error {
	if m.disk != nil {
		return m.disk.Close()
	}
	return nil
}
