// Package reward holds the weighted random draws shared by boxes and daily rewards.
package reward

import (
	"math/rand/v2"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// OddsScale is the total a rarity odds table is expressed against.
const OddsScale = 100.0

// Selector draws rarities and items. rnd must return values in [0,1).
type Selector struct {
	rnd func() float64
}

// NewSelector creates a Selector backed by math/rand
func NewSelector() *Selector {
	return &Selector{rnd: rand.Float64} //nolint:gosec // game randomness
}

// NewSelectorWithRand creates a Selector with an injected random source
func NewSelectorWithRand(rnd func() float64) *Selector {
	return &Selector{rnd: rnd}
}

// SelectRarity walks odds as a cumulative distribution in tier order,
// regardless of map iteration order. Tiers missing from odds contribute zero.
// When rounding leaves the draw above the last threshold the lowest tier wins.
func (s *Selector) SelectRarity(odds map[domain.Rarity]float64, tiers []domain.Rarity) domain.Rarity {
	if len(tiers) == 0 {
		return domain.RarityE
	}

	roll := s.rnd() * OddsScale
	cumulative := 0.0
	for _, tier := range tiers {
		chance := odds[tier]
		if chance <= 0 {
			continue
		}
		cumulative += chance
		if roll <= cumulative {
			return tier
		}
	}
	return tiers[0]
}

// PickWeighted draws one candidate proportionally to its popularity weight.
// ok is false when there is nothing to draw from.
func (s *Selector) PickWeighted(candidates []domain.CatalogItem) (domain.CatalogItem, bool) {
	if len(candidates) == 0 {
		return domain.CatalogItem{}, false
	}

	total := 0.0
	for _, c := range candidates {
		total += c.Weight()
	}

	remaining := s.rnd() * total
	for _, c := range candidates {
		remaining -= c.Weight()
		if remaining <= 0 {
			return c, true
		}
	}
	return candidates[len(candidates)-1], true
}

// Bucket is one slot of a fixed-order probability ladder
type Bucket[T any] struct {
	Value  T
	Chance float64
}

// Ladder picks a bucket by cumulative percentage. Falls back to the first
// bucket when the chances do not cover the draw.
func Ladder[T any](s *Selector, buckets []Bucket[T]) T {
	var zero T
	if len(buckets) == 0 {
		return zero
	}

	roll := s.rnd() * OddsScale
	cumulative := 0.0
	for _, b := range buckets {
		cumulative += b.Chance
		if roll < cumulative {
			return b.Value
		}
	}
	return buckets[0].Value
}
