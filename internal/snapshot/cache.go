package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/reporting"
	"GroundwaterDash/internal/serviceiface"
	"GroundwaterDash/internal/store"
)

var ErrNoSource = errors.New("snapshot cache has no source")

// Cache holds the latest file entry snapshot. A snapshot is never modified
// after it is stored; Replace swaps in a new slice so concurrent report runs
// keep reading the one they started with.
type Cache struct {
	source            store.Source
	mu                sync.RWMutex
	entries           []reporting.FileEntry
	loadedAt          time.Time
	version           int
	fingerprint       string
	stopChan          chan struct{}
	stopOnce          sync.Once
	heartbeatInterval time.Duration
	refreshTimeout    time.Duration
}

func NewCache(source store.Source) *Cache {
	return &Cache{
		source:            source,
		stopChan:          make(chan struct{}),
		heartbeatInterval: 5 * time.Minute,
		refreshTimeout:    time.Minute,
	}
}

// NewSnapshotService builds the cache as a managed service.
// heartbeat_interval accepts a duration string or seconds.
func NewSnapshotService(cfg map[string]interface{}, source store.Source) serviceiface.Service {
	c := NewCache(source)
	if d, ok := durationOption(cfg, "heartbeat_interval"); ok {
		c.heartbeatInterval = d
	}
	if d, ok := durationOption(cfg, "refresh_timeout"); ok {
		c.refreshTimeout = d
	}
	return c
}

func durationOption(cfg map[string]interface{}, key string) (time.Duration, bool) {
	switch v := cfg[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d, true
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second, true
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second)), true
		}
	}
	return 0, false
}

func (c *Cache) Name() string { return "snapshot" }

// Start loads the first snapshot. A failed load is logged, not fatal: reports
// serve empty aggregates until the next scheduled refresh succeeds.
func (c *Cache) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
	defer cancel()
	if err := c.Refresh(ctx); err != nil {
		log.Println("[ERROR] initial snapshot load failed:", err)
	}
	go c.heartbeatLoop()
	return nil
}

func (c *Cache) Stop() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	return nil
}

func (c *Cache) heartbeatLoop() {
	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			entries, loadedAt, version := c.Snapshot()
			logger.Audit("snapshot v%d holds %d file entries, loaded %s ago", version, len(entries), time.Since(loadedAt).Round(time.Second))
		}
	}
}

// Refresh reloads the snapshot from the source.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.source == nil {
		return ErrNoSource
	}
	start := time.Now()
	entries, err := c.source.ListFileEntries(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	fp, err := Fingerprint(entries)
	if err != nil {
		return fmt.Errorf("fingerprint snapshot: %w", err)
	}
	if c.touchIfUnchanged(fp) {
		logger.Audit("snapshot unchanged after refresh (%d file entries)", len(entries))
		return nil
	}
	version := c.install(entries, fp)
	logger.Audit("snapshot v%d refreshed with %d file entries in %s", version, len(entries), time.Since(start).Round(time.Millisecond))
	return nil
}

func (c *Cache) touchIfUnchanged(fp string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version == 0 || c.fingerprint != fp {
		return false
	}
	c.loadedAt = time.Now()
	return true
}

// Replace installs entries as the current snapshot and returns its version.
func (c *Cache) Replace(entries []reporting.FileEntry) int {
	fp, _ := Fingerprint(entries)
	return c.install(entries, fp)
}

func (c *Cache) install(entries []reporting.FileEntry, fp string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.fingerprint = fp
	c.loadedAt = time.Now()
	c.version++
	return c.version
}

// Fingerprint returns the fingerprint of the current snapshot.
func (c *Cache) Fingerprint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}

// Snapshot returns the current entries, when they were loaded and the
// snapshot version. The slice must be treated as read-only.
func (c *Cache) Snapshot() ([]reporting.FileEntry, time.Time, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries, c.loadedAt, c.version
}
