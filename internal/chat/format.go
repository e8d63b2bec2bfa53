package chat

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func reply(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// money renders an amount with grouping and the currency name, e.g. "1,250 Coins"
func money(cfg *domain.EconomyConfig, amount int) string {
	// Printers and Casers keep state; build one per call
	return message.NewPrinter(language.English).Sprintf("%d %s", amount, cfg.CurrencyName)
}

func number(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// title capitalises level titles and platform names for display
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func describeItem(item domain.DroppedItem) string {
	return fmt.Sprintf("%s [%s]", item.Name, item.Rarity)
}

func joinItems(items []domain.DroppedItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, describeItem(item))
	}
	return strings.Join(parts, ", ")
}

func joinTiers(tiers []domain.Rarity) string {
	parts := make([]string, 0, len(tiers))
	for _, t := range tiers {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

// ranked renders "1. a (x) | 2. b (y)"
func ranked(entries []string) string {
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, e))
	}
	return strings.Join(parts, " | ")
}

// humanDuration renders a wait the way chat users read it: 45s, 12m, 3h 5m
func humanDuration(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Round(time.Second)/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Round(time.Minute)/time.Minute))
	default:
		d = d.Round(time.Minute)
		h := int(d / time.Hour)
		m := int((d % time.Hour) / time.Minute)
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
