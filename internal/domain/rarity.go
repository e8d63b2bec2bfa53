package domain

import "strings"

// Rarity is a tier label. Tier order is configuration, see EconomyConfig.Tiers.
type Rarity string

const (
	RarityE   Rarity = "E"
	RarityD   Rarity = "D"
	RarityC   Rarity = "C"
	RarityB   Rarity = "B"
	RarityA   Rarity = "A"
	RarityS   Rarity = "S"
	RaritySS  Rarity = "SS"
	RaritySSS Rarity = "SSS"

	// RarityUltra is the hand-picked singleton tier. It never drops from boxes.
	RarityUltra Rarity = "SSS+"
)

// DefaultRarityTiers lists the box tiers from lowest to highest.
var DefaultRarityTiers = []Rarity{RarityE, RarityD, RarityC, RarityB, RarityA, RarityS, RaritySS, RaritySSS}

// ParseRarity normalizes user input such as " sss+ " to a Rarity.
func ParseRarity(s string) Rarity {
	return Rarity(strings.ToUpper(strings.TrimSpace(s)))
}

func (r Rarity) String() string {
	return string(r)
}

// IndexOf returns the position of r in tiers, or -1.
func IndexOf(tiers []Rarity, r Rarity) int {
	for i, t := range tiers {
		if t == r {
			return i
		}
	}
	return -1
}
