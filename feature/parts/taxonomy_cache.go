package parts

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"parts-manager/core/classify"

	"golang.org/x/sync/singleflight"
)

// TaxonomyProvider lists the part types visible to a user.
type TaxonomyProvider interface {
	GetPartTypes(ctx context.Context, userID int64) ([]*classify.PartType, error)
}

type taxonomyEntry struct {
	taxonomy classify.Taxonomy
	built    time.Time
}

// TaxonomyCache holds one validated taxonomy per user for a TTL.
// Concurrent misses for the same user share a single provider call, which is
// not cancelled when the caller that started it gives up.
type TaxonomyCache struct {
	provider TaxonomyProvider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[int64]taxonomyEntry
	sf      singleflight.Group
}

// NewTaxonomyCache wraps provider. A zero ttl disables caching.
func NewTaxonomyCache(provider TaxonomyProvider, ttl time.Duration) *TaxonomyCache {
	return &TaxonomyCache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[int64]taxonomyEntry),
	}
}

func (c *TaxonomyCache) expired(e taxonomyEntry) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// Get returns the user's taxonomy, loading it from the provider when missing
// or expired. A provider list with a nil entry fails with
// classify.ErrInvalidArgument and is not cached.
func (c *TaxonomyCache) Get(ctx context.Context, userID int64) (classify.Taxonomy, error) {
	if c == nil || c.provider == nil {
		return classify.Taxonomy{}, fmt.Errorf("%w: no taxonomy provider", classify.ErrInvalidArgument)
	}

	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && !c.expired(entry) {
		return entry.taxonomy, nil
	}

	v, err, _ := c.sf.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		c.mu.RLock()
		entry, ok := c.entries[userID]
		c.mu.RUnlock()
		if ok && !c.expired(entry) {
			return entry.taxonomy, nil
		}

		types, err := c.provider.GetPartTypes(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}
		tax, err := classify.NewTaxonomy(types)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[userID] = taxonomyEntry{taxonomy: tax, built: c.now()}
			c.mu.Unlock()
		}
		return tax, nil
	})
	if err != nil {
		return classify.Taxonomy{}, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return v.(classify.Taxonomy), nil
}

// Invalidate drops the cached taxonomy of a user.
func (c *TaxonomyCache) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
