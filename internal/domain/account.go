package domain

import (
	"strings"
	"time"
)

// Account is one chat participant's economy state
type Account struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"display_name"`
	Coins            int        `json:"coins"`
	Boxes            int        `json:"boxes"`
	XP               int        `json:"xp"`
	Level            int        `json:"level"`
	TotalCoinsEarned int        `json:"total_coins_earned"`
	TotalBoxesOpened int        `json:"total_boxes_opened"`
	LastDailyAt      *time.Time `json:"last_daily_at,omitempty"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`
	LastPassiveAt    *time.Time `json:"last_passive_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with a.
func (a *Account) Clone() *Account {
	c := *a
	c.LastDailyAt = cloneTime(a.LastDailyAt)
	c.LastMessageAt = cloneTime(a.LastMessageAt)
	c.LastPassiveAt = cloneTime(a.LastPassiveAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NormalizeUsername lowercases and strips a leading @ mention marker.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}

// InventoryLine is one owned catalog item with its quantity
type InventoryLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Platform  string `json:"platform"`
	Rarity    Rarity `json:"rarity"`
	Tradeable bool   `json:"tradeable"`
	Quantity  int    `json:"quantity"`
}

// Profile is the read model served to chat and the dashboard
type Profile struct {
	Account     *Account        `json:"account"`
	LevelTitle  string          `json:"level_title"`
	NextLevelXP int             `json:"next_level_xp,omitempty"`
	Inventory   []InventoryLine `json:"inventory"`
}

// LeaderboardKind selects the ranking column
type LeaderboardKind string

const (
	LeaderboardCoins LeaderboardKind = "coins"
	LeaderboardXP    LeaderboardKind = "xp"
)

// Valid reports whether k is a known leaderboard
func (k LeaderboardKind) Valid() bool {
	return k == LeaderboardCoins || k == LeaderboardXP
}
