package storage

import (
	"sync"
	"time"

	"github.com/bher20/eratecache/internal/rates"
	"github.com/pkg/errors"
)

var _ RateStore = (*RateCache)(nil)

// RateCache is the in-memory exchange rate cache. The version and table are
// held in a single snapshot value so readers never see one without the other.
type RateCache struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewRateCache returns an empty RateCache.
func NewRateCache() *RateCache {
	return &RateCache{snap: emptySnapshot(), now: time.Now}
}

// CurrentVersion returns the last committed build ID, or "" when empty.
func (c *RateCache) CurrentVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Version
}

// CurrentRatesAsJSON returns the canonical JSON of the current table, "{}"
// when empty.
func (c *RateCache) CurrentRatesAsJSON() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.JSON
}

// RateFor looks up a single currency pair.
func (c *RateCache) RateFor(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.snap.Rates[key]
	return r, ok
}

// Rates returns a copy of the current table.
func (c *RateCache) Rates() rates.RateTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Rates.Clone()
}

// Snapshot returns a copy of the current snapshot.
func (c *RateCache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := c.snap
	cp.Rates = c.snap.Rates.Clone()
	return cp
}

// Replace commits version and raw as one unit. On an empty version or an
// unparseable payload the cache is reset to empty and false is returned; the
// previous snapshot is never kept in that case.
func (c *RateCache) Replace(version string, raw []byte) bool {
	return c.Commit(version, raw) == nil
}

// Commit is Replace with the reason for a rejected commit. Any returned error
// wraps rates.ErrInvalidCommit and means the cache is now empty.
func (c *RateCache) Commit(version string, raw []byte) error {
	const op = "storage.RateCache.Commit"

	next, err := c.build(version, raw)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.snap = emptySnapshot()
		return errors.Wrapf(rates.ErrInvalidCommit, "%s: %v", op, err)
	}
	c.snap = next
	return nil
}

func (c *RateCache) build(version string, raw []byte) (Snapshot, error) {
	if version == "" {
		return Snapshot{}, errors.New("empty build id")
	}
	table, err := rates.ParseRateTable(raw)
	if err != nil {
		return Snapshot{}, err
	}
	js, err := table.JSON()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Version:     version,
		Rates:       table,
		JSON:        js,
		CommittedAt: c.now(),
	}, nil
}

// Reset forces the empty state. It is idempotent.
func (c *RateCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = emptySnapshot()
}
