// ABOUTME: Installation cache interface and its in-memory implementation
// ABOUTME: The cache lets a batch skip repositories unchanged since their last run
package storage

import (
	"sort"
	"sync"

	"github.com/harper/plugstore/internal/models"
)

// InstallCache stores the installation chosen for each repository
type InstallCache interface {
	// Get returns the entry for fullName; ok is false on a miss
	Get(fullName string) (entry models.CacheEntry, ok bool, err error)
	Put(fullName string, entry models.CacheEntry) error
	Delete(fullName string) error
	// List returns the cached repository names, sorted
	List() ([]string, error)
	Wipe() error
}

// RunLog keeps the records of past batch runs
type RunLog interface {
	PutRun(run models.RunRecord) error
	// Runs returns the records oldest first
	Runs() ([]models.RunRecord, error)
}

// Lookup returns a cached installation only when it is still fresh for repo
func Lookup(cache InstallCache, repo models.Repository) (models.Installation, bool, error) {
	entry, ok, err := cache.Get(repo.FullName)
	if err != nil || !ok {
		return models.Installation{}, false, err
	}
	if !entry.IsFresh(repo) {
		return models.Installation{}, false, nil
	}
	return entry.Installation(), true, nil
}

// MemoryCache is a process-local InstallCache
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
	runs    []models.RunRecord
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]models.CacheEntry)}
}

func (m *MemoryCache) Get(fullName string) (models.CacheEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[fullName]
	return entry, ok, nil
}

func (m *MemoryCache) Put(fullName string, entry models.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fullName] = entry
	return nil
}

func (m *MemoryCache) Delete(fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fullName)
	return nil
}

func (m *MemoryCache) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryCache) Wipe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]models.CacheEntry)
	return nil
}

func (m *MemoryCache) PutRun(run models.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryCache) Runs() ([]models.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]models.RunRecord, len(m.runs))
	copy(runs, m.runs)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs, nil
}
