// ABOUTME: Charm KV backed installation cache
// ABOUTME: Entries are JSON values under install:<full_name> keys, run records under run:<start>:<id>
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harper/plugstore/internal/charm"
	"github.com/harper/plugstore/internal/models"
)

// KV is the subset of the charm client the cache needs
type KV interface {
	GetJSON(key string, dest interface{}) error
	SetJSON(key string, value interface{}) error
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
}

// CharmCache persists installations in Charm KV
type CharmCache struct {
	kv KV
}

// NewCharmCache wraps a KV store, usually a *charm.Client
func NewCharmCache(kv KV) *CharmCache {
	return &CharmCache{kv: kv}
}

// OpenCharmCache connects the global charm client
func OpenCharmCache() (*CharmCache, error) {
	client, err := charm.GetClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return NewCharmCache(client), nil
}

func (c *CharmCache) Get(fullName string) (models.CacheEntry, bool, error) {
	var entry models.CacheEntry
	if err := c.kv.GetJSON(charm.InstallKey(fullName), &entry); err != nil {
		if errors.Is(err, charm.ErrNotFound) {
			return models.CacheEntry{}, false, nil
		}
		return models.CacheEntry{}, false, fmt.Errorf("failed to read cache entry for %s: %w", fullName, err)
	}
	return entry, true, nil
}

func (c *CharmCache) Put(fullName string, entry models.CacheEntry) error {
	if err := c.kv.SetJSON(charm.InstallKey(fullName), entry); err != nil {
		return fmt.Errorf("failed to write cache entry for %s: %w", fullName, err)
	}
	return nil
}

func (c *CharmCache) Delete(fullName string) error {
	return c.kv.Delete(charm.InstallKey(fullName))
}

func (c *CharmCache) List() ([]string, error) {
	keys, err := c.kv.ListKeys(charm.InstallPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache keys: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, charm.InstallPrefix))
	}
	sort.Strings(names)
	return names, nil
}

// Wipe deletes every installation entry, leaving other keys alone
func (c *CharmCache) Wipe() error {
	keys, err := c.kv.ListKeys(charm.InstallPrefix)
	if err != nil {
		return fmt.Errorf("failed to list cache keys: %w", err)
	}
	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (c *CharmCache) PutRun(run models.RunRecord) error {
	if err := c.kv.SetJSON(charm.RunKey(run.StartedAt, run.RunID), run); err != nil {
		return fmt.Errorf("failed to write run %s: %w", run.RunID, err)
	}
	return nil
}

func (c *CharmCache) Runs() ([]models.RunRecord, error) {
	keys, err := c.kv.ListKeys(charm.RunPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list run keys: %w", err)
	}
	sort.Strings(keys)
	runs := make([]models.RunRecord, 0, len(keys))
	for _, key := range keys {
		var run models.RunRecord
		if err := c.kv.GetJSON(key, &run); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
