package persistence

import (
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrGymNotRegistered is returned when a gym key has no live connection entry.
// Callers must surface this as an "unknown gym" condition, never fall back to
// the control-plane database.
var ErrGymNotRegistered = errors.New("gym not registered")

// ConnEntry is the process-local record describing how to reach one gym's
// physical database. It is owned exclusively by the Registry and rebuilt from
// the gyms table on every process start.
type ConnEntry struct {
	GymKey   string
	Database string
	Pool     *pgxpool.Pool
}

// Registry maps gym keys to live connection entries. Writes happen rarely
// (startup, gym creation) relative to reads, so a single RWMutex over the map
// is sufficient. Entries live for the process lifetime; there is no eviction.
//
// The registry is constructed once at process start and injected into every
// component that needs gym resolution.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]ConnEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]ConnEntry)}
}

// Register inserts or overwrites the entry for a gym key. A replaced entry's
// pool is closed unless the new entry reuses it.
func (r *Registry) Register(entry ConnEntry) {
	if entry.GymKey == "" {
		panic("registry: gym key is required")
	}
	if entry.Pool == nil {
		panic("registry: pool is required")
	}

	r.mu.Lock()
	prev, existed := r.entries[entry.GymKey]
	r.entries[entry.GymKey] = entry
	r.mu.Unlock()

	if existed && prev.Pool != nil && prev.Pool != entry.Pool {
		prev.Pool.Close()
	}
}

// Resolve returns the entry for a gym key, or ErrGymNotRegistered.
func (r *Registry) Resolve(gymKey string) (ConnEntry, error) {
	r.mu.RLock()
	entry, ok := r.entries[gymKey]
	r.mu.RUnlock()
	if !ok {
		return ConnEntry{}, ErrGymNotRegistered
	}
	return entry, nil
}

// Keys returns all registered gym keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len reports the number of registered gyms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close shuts down every registered pool. Intended for process shutdown and
// test cleanup.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.entries {
		entry.Pool.Close()
		delete(r.entries, key)
	}
}
