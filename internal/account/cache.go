package account

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// identity is the part of an account that never changes after creation
type identity struct {
	ID       string
	Username string
}

// identityCache skips the find-or-create round trip for known chatters
type identityCache struct {
	lru *expirable.LRU[string, identity]
}

func newIdentityCache(size int, ttl time.Duration) *identityCache {
	return &identityCache{
		lru: expirable.NewLRU[string, identity](size, nil, ttl),
	}
}

func (c *identityCache) Get(username string) (identity, bool) {
	return c.lru.Get(domain.NormalizeUsername(username))
}

func (c *identityCache) Set(acc *domain.Account) {
	c.lru.Add(acc.Username, identity{ID: acc.ID, Username: acc.Username})
}
