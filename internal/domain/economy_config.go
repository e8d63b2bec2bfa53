package domain

import (
	"sort"
	"strings"
	"time"
)

// LevelEntry is one row of the level table. XP is the cumulative threshold.
type LevelEntry struct {
	Level int    `json:"level" yaml:"level"`
	XP    int    `json:"xp" yaml:"xp"`
	Title string `json:"title" yaml:"title"`
}

// RarityThreshold maps a minimum quality score to a tier
type RarityThreshold struct {
	MinScore int    `json:"min_score" yaml:"min_score"`
	Rarity   Rarity `json:"rarity" yaml:"rarity"`
}

// BoxConfig holds box pricing
type BoxConfig struct {
	Price          int      `json:"price" yaml:"price"`
	MaxPerPurchase int      `json:"max_per_purchase" yaml:"max_per_purchase"`
	AnnounceTiers  []Rarity `json:"announce_tiers" yaml:"announce_tiers"`
}

// TradeConfig holds trade gates and costs
type TradeConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	Fee        int  `json:"fee" yaml:"fee"`
	MinCoins   int  `json:"min_coins" yaml:"min_coins"`
	TTLSeconds int  `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// TTL is the lifetime of a pending trade
func (c TradeConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DailyConfig holds the daily reward ladder. Chances are percentages in
// bucket order coins, box, common item, rare item.
type DailyConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	CooldownHours  float64  `json:"cooldown_hours" yaml:"cooldown_hours"`
	Coins          int      `json:"coins" yaml:"coins"`
	Boxes          int      `json:"boxes" yaml:"boxes"`
	CoinsChance    float64  `json:"coins_chance" yaml:"coins_chance"`
	BoxChance      float64  `json:"box_chance" yaml:"box_chance"`
	CommonChance   float64  `json:"common_chance" yaml:"common_chance"`
	RareChance     float64  `json:"rare_chance" yaml:"rare_chance"`
	CommonRarities []Rarity `json:"common_rarities" yaml:"common_rarities"`
	RareRarity     Rarity   `json:"rare_rarity" yaml:"rare_rarity"`
}

// Cooldown is the minimum time between two claims
func (c DailyConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownHours * float64(time.Hour))
}

// ChatConfig holds chat activity rewards and command gating
type ChatConfig struct {
	Prefix                 string   `json:"prefix" yaml:"prefix"`
	CoinsPerMessage        int      `json:"coins_per_message" yaml:"coins_per_message"`
	XPPerMessage           int      `json:"xp_per_message" yaml:"xp_per_message"`
	MessageCooldownSeconds int      `json:"message_cooldown_seconds" yaml:"message_cooldown_seconds"`
	PassiveIntervalSeconds int      `json:"passive_interval_seconds" yaml:"passive_interval_seconds"`
	PassiveAmount          int      `json:"passive_amount" yaml:"passive_amount"`
	CommandCooldownSeconds int      `json:"command_cooldown_seconds" yaml:"command_cooldown_seconds"`
	AdminUsers             []string `json:"admin_users" yaml:"admin_users"`
	BannedUsers            []string `json:"banned_users" yaml:"banned_users"`
	DisabledCommands       []string `json:"disabled_commands" yaml:"disabled_commands"`
}

// MessageCooldown is the minimum gap between two rewarded messages
func (c ChatConfig) MessageCooldown() time.Duration {
	return time.Duration(c.MessageCooldownSeconds) * time.Second
}

// PassiveInterval is the passive income period
func (c ChatConfig) PassiveInterval() time.Duration {
	return time.Duration(c.PassiveIntervalSeconds) * time.Second
}

// IsAdmin reports whether username is in the admin list
func (c ChatConfig) IsAdmin(username string) bool {
	return containsFold(c.AdminUsers, username)
}

// IsBanned reports whether username is ignored by the bot
func (c ChatConfig) IsBanned(username string) bool {
	return containsFold(c.BannedUsers, username)
}

// CommandDisabled reports whether a command was switched off by the operator
func (c ChatConfig) CommandDisabled(name string) bool {
	return containsFold(c.DisabledCommands, name)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// EconomyConfig is the operator-tunable economy. Core operations take one
// snapshot per call via settings.Provider.
type EconomyConfig struct {
	CurrencyName     string             `json:"currency_name" yaml:"currency_name"`
	Tiers            []Rarity           `json:"tiers" yaml:"tiers"`
	UltraTier        Rarity             `json:"ultra_tier" yaml:"ultra_tier"`
	RarityOdds       map[Rarity]float64 `json:"rarity_odds" yaml:"rarity_odds"`
	RarityThresholds []RarityThreshold  `json:"rarity_thresholds" yaml:"rarity_thresholds"`
	Box              BoxConfig          `json:"box" yaml:"box"`
	Trade            TradeConfig        `json:"trade" yaml:"trade"`
	Daily            DailyConfig        `json:"daily" yaml:"daily"`
	Chat             ChatConfig         `json:"chat" yaml:"chat"`
	Levels           []LevelEntry       `json:"levels" yaml:"levels"`
	UpdatedAt        time.Time          `json:"updated_at" yaml:"-"`
}

// DefaultEconomyConfig returns the stock economy
func DefaultEconomyConfig() *EconomyConfig {
	return &EconomyConfig{
		CurrencyName: "Coins",
		Tiers:        append([]Rarity(nil), DefaultRarityTiers...),
		UltraTier:    RarityUltra,
		RarityOdds: map[Rarity]float64{
			RarityE:   40,
			RarityD:   25,
			RarityC:   15,
			RarityB:   10,
			RarityA:   5,
			RarityS:   3,
			RaritySS:  1.5,
			RaritySSS: 0.5,
		},
		RarityThresholds: []RarityThreshold{
			{MinScore: 95, Rarity: RaritySSS},
			{MinScore: 90, Rarity: RaritySS},
			{MinScore: 85, Rarity: RarityS},
			{MinScore: 80, Rarity: RarityA},
			{MinScore: 75, Rarity: RarityB},
			{MinScore: 70, Rarity: RarityC},
			{MinScore: 65, Rarity: RarityD},
		},
		Box: BoxConfig{
			Price:          100,
			MaxPerPurchase: 10,
			AnnounceTiers:  []Rarity{RarityS, RaritySS, RaritySSS, RarityUltra},
		},
		Trade: TradeConfig{
			Enabled:    true,
			Fee:        50,
			MinCoins:   100,
			TTLSeconds: 60,
		},
		Daily: DailyConfig{
			Enabled:        true,
			CooldownHours:  24,
			Coins:          200,
			Boxes:          1,
			CoinsChance:    90,
			BoxChance:      5,
			CommonChance:   4,
			RareChance:     1,
			CommonRarities: []Rarity{RarityE, RarityD, RarityC, RarityB},
			RareRarity:     RarityA,
		},
		Chat: ChatConfig{
			Prefix:                 "!",
			CoinsPerMessage:        5,
			XPPerMessage:           10,
			MessageCooldownSeconds: 60,
			PassiveIntervalSeconds: 600,
			PassiveAmount:          50,
			CommandCooldownSeconds: 3,
		},
		Levels: []LevelEntry{
			{Level: 1, XP: 0, Title: "newbie"},
			{Level: 2, XP: 100, Title: "casual gamer"},
			{Level: 3, XP: 250, Title: "regular"},
			{Level: 4, XP: 500, Title: "enthusiast"},
			{Level: 5, XP: 1000, Title: "collector"},
			{Level: 6, XP: 2000, Title: "veteran"},
			{Level: 7, XP: 4000, Title: "expert"},
			{Level: 8, XP: 8000, Title: "master"},
			{Level: 9, XP: 15000, Title: "grandmaster"},
			{Level: 10, XP: 30000, Title: "legend"},
		},
	}
}

// Clone deep-copies the config so a snapshot cannot be mutated by later updates.
func (c *EconomyConfig) Clone() *EconomyConfig {
	out := *c
	out.Tiers = append([]Rarity(nil), c.Tiers...)
	out.RarityOdds = make(map[Rarity]float64, len(c.RarityOdds))
	for k, v := range c.RarityOdds {
		out.RarityOdds[k] = v
	}
	out.RarityThresholds = append([]RarityThreshold(nil), c.RarityThresholds...)
	out.Box.AnnounceTiers = append([]Rarity(nil), c.Box.AnnounceTiers...)
	out.Daily.CommonRarities = append([]Rarity(nil), c.Daily.CommonRarities...)
	out.Chat.AdminUsers = append([]string(nil), c.Chat.AdminUsers...)
	out.Chat.BannedUsers = append([]string(nil), c.Chat.BannedUsers...)
	out.Chat.DisabledCommands = append([]string(nil), c.Chat.DisabledCommands...)
	out.Levels = append([]LevelEntry(nil), c.Levels...)
	return &out
}

// LowestTier is the fallback tier for rolls and unscored items
func (c *EconomyConfig) LowestTier() Rarity {
	if len(c.Tiers) == 0 {
		return RarityE
	}
	return c.Tiers[0]
}

// KnownTier reports whether r is a box tier or the ultra tier
func (c *EconomyConfig) KnownTier(r Rarity) bool {
	return IndexOf(c.Tiers, r) >= 0 || (c.UltraTier != "" && r == c.UltraTier)
}

// Announces reports whether drops of r should be broadcast
func (c *EconomyConfig) Announces(r Rarity) bool {
	return IndexOf(c.Box.AnnounceTiers, r) >= 0
}

// RarityForScore derives a tier from a quality score. Missing or zero scores
// land in the lowest tier.
func (c *EconomyConfig) RarityForScore(score *int) Rarity {
	if score == nil || *score <= 0 {
		return c.LowestTier()
	}
	thresholds := append([]RarityThreshold(nil), c.RarityThresholds...)
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].MinScore > thresholds[j].MinScore
	})
	for _, t := range thresholds {
		if *score >= t.MinScore {
			return t.Rarity
		}
	}
	return c.LowestTier()
}

// LevelFor returns the level entry reached at xp and the next one, if any.
func (c *EconomyConfig) LevelFor(xp int) (LevelEntry, *LevelEntry) {
	levels := append([]LevelEntry(nil), c.Levels...)
	sort.Slice(levels, func(i, j int) bool { return levels[i].XP < levels[j].XP })

	current := LevelEntry{Level: 1}
	var next *LevelEntry
	for i, l := range levels {
		if xp >= l.XP {
			current = l
			continue
		}
		next = &levels[i]
		break
	}
	return current, next
}
