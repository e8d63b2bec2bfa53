package domain

import "time"

// CatalogItem is a collectible game
type CatalogItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Platform      string    `json:"platform"`
	ReleaseYear   int       `json:"release_year,omitempty"`
	QualityScore  *int      `json:"quality_score,omitempty"`
	Rarity        Rarity    `json:"rarity"`
	CustomRarity  Rarity    `json:"custom_rarity,omitempty"`
	Disabled      bool      `json:"disabled"`
	Tradeable     bool      `json:"tradeable"`
	BoxObtainable bool      `json:"box_obtainable"`
	Popularity    float64   `json:"popularity"`
	DropCount     int       `json:"drop_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Weight is the popularity used for same-tier selection. Missing or zero counts as 1.
func (c CatalogItem) Weight() float64 {
	if c.Popularity <= 0 {
		return 1
	}
	return c.Popularity
}

// BoxEligible reports whether the item may be awarded by a box or a daily roll.
func (c CatalogItem) BoxEligible() bool {
	return !c.Disabled && c.BoxObtainable
}

// CatalogFilter narrows catalog listings
type CatalogFilter struct {
	Rarity          Rarity
	Query           string
	IncludeDisabled bool
	Limit           int
}

// RarityCount is one row of catalog statistics
type RarityCount struct {
	Rarity Rarity `json:"rarity"`
	Count  int    `json:"count"`
	Drops  int    `json:"drops"`
}
