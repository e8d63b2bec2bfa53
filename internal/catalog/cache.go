package catalog

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// candidateCache holds box candidate lists per rarity. Every Clear starts a
// new generation; lists read under an older generation are never stored.
type candidateCache struct {
	lru *expirable.LRU[domain.Rarity, []domain.CatalogItem]

	mu         sync.Mutex
	generation uint64
}

func newCandidateCache(size int, ttl time.Duration) *candidateCache {
	return &candidateCache{
		lru: expirable.NewLRU[domain.Rarity, []domain.CatalogItem](size, nil, ttl),
	}
}

// Get returns a copy so callers cannot mutate the cached slice
func (c *candidateCache) Get(rarity domain.Rarity) ([]domain.CatalogItem, bool) {
	items, ok := c.lru.Get(rarity)
	if !ok {
		return nil, false
	}
	return append([]domain.CatalogItem(nil), items...), true
}

// Generation is taken before reading the repository and handed back to Set
func (c *candidateCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Set stores items unless a Clear ran since generation was taken
func (c *candidateCache) Set(rarity domain.Rarity, items []domain.CatalogItem, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.lru.Add(rarity, append([]domain.CatalogItem(nil), items...))
	return true
}

func (c *candidateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Purge()
}
