package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// quantityArg parses args[i] as a positive count, defaulting to 1
func quantityArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, errBadQuantity
	}
	return n, nil
}

// targetAndAmount parses "@user <amount>"
func targetAndAmount(args []string, usage string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, &usageError{text: usage}
	}
	target := domain.NormalizeUsername(args[0])
	if target == "" {
		return "", 0, &usageError{text: usage}
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil || amount < 1 {
		return "", 0, errBadQuantity
	}
	return target, amount, nil
}

func (r *Router) buyBox(ctx context.Context, req *request) ([]string, error) {
	qty, err := quantityArg(req.args, 0)
	if err != nil {
		return nil, err
	}
	res, err := r.svc.Boxes.PurchaseBoxes(ctx, req.user, qty)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyPurchased, req.user, res.BoxesPurchased,
		money(req.cfg, res.CoinsSpent), money(req.cfg, res.RemainingCoins), res.TotalBoxes)}, nil
}

func (r *Router) openBox(ctx context.Context, req *request) ([]string, error) {
	qty, err := quantityArg(req.args, 0)
	if err != nil {
		return nil, err
	}
	res, err := r.svc.Boxes.OpenBoxes(ctx, req.user, qty)
	if errors.Is(err, domain.ErrInsufficientInventory) {
		return nil, &usageError{text: ErrReplyNoBoxes}
	}
	if err != nil {
		return nil, err
	}

	var text string
	if len(res.Items) == 0 {
		text = reply(ReplyOpenedNothing, req.user, res.BoxesOpened, res.RemainingBoxes)
	} else {
		text = reply(ReplyOpened, req.user, res.BoxesOpened, joinItems(res.Items), res.RemainingBoxes)
		if len(res.Depleted) > 0 {
			text += reply(ReplyDepletedNote, joinTiers(res.Depleted))
		}
	}
	return []string{text}, nil
}

func (r *Router) inventory(ctx context.Context, req *request) ([]string, error) {
	profile, err := r.svc.Accounts.Profile(ctx, req.user)
	if err != nil {
		return nil, err
	}
	if len(profile.Inventory) == 0 {
		return []string{reply(ReplyInventoryNone, req.user)}, nil
	}

	total := 0
	byRarity := make(map[domain.Rarity]int)
	for _, line := range profile.Inventory {
		total += line.Quantity
		byRarity[line.Rarity] += line.Quantity
	}

	// Highest tier first, ultra on top
	tiers := append([]domain.Rarity(nil), req.cfg.Tiers...)
	if req.cfg.UltraTier != "" {
		tiers = append(tiers, req.cfg.UltraTier)
	}
	var parts []string
	for i := len(tiers) - 1; i >= 0; i-- {
		if n := byRarity[tiers[i]]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", tiers[i], n))
		}
	}
	return []string{reply(ReplyInventory, req.user, total, strings.Join(parts, " | "))}, nil
}

func (r *Router) profile(ctx context.Context, req *request) ([]string, error) {
	profile, err := r.svc.Accounts.Profile(ctx, req.user)
	if err != nil {
		return nil, err
	}
	acc := profile.Account
	return []string{reply(ReplyProfile, req.user, money(req.cfg, acc.Coins), acc.Boxes, countGames(profile.Inventory),
		acc.Level, title(profile.LevelTitle), acc.XP)}, nil
}

func (r *Router) daily(ctx context.Context, req *request) ([]string, error) {
	res, err := r.svc.Daily.Claim(ctx, req.user)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case domain.DailyOutcomeBox:
		return []string{reply(ReplyDailyBox, req.user, res.Amount)}, nil
	case domain.DailyOutcomeItem:
		return []string{reply(ReplyDailyItem, req.user, res.Item.Name, res.Item.Rarity)}, nil
	default:
		if res.Fallback {
			return []string{reply(ReplyDailyFallback, req.user, money(req.cfg, res.Amount))}, nil
		}
		return []string{reply(ReplyDailyCoins, req.user, money(req.cfg, res.Amount))}, nil
	}
}

// trade parses "@user mine | theirs"
func (r *Router) trade(ctx context.Context, req *request) ([]string, error) {
	usage := &usageError{text: fmt.Sprintf(UsageTrade, req.prefix)}
	if len(req.args) < 2 {
		return nil, usage
	}
	target := req.args[0]
	mine, theirs, ok := strings.Cut(strings.Join(req.args[1:], " "), "|")
	mine, theirs = strings.TrimSpace(mine), strings.TrimSpace(theirs)
	if !ok || mine == "" || theirs == "" {
		return nil, usage
	}

	t, err := r.svc.Trades.Propose(ctx, req.user, target, mine, theirs)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyTradeProposed, t.Target, t.Initiator, t.InitiatorItemName, t.TargetItemName,
		req.prefix, req.prefix, humanDuration(t.ExpiresAt.Sub(t.CreatedAt)))}, nil
}

func (r *Router) accept(ctx context.Context, req *request) ([]string, error) {
	res, err := r.svc.Trades.Accept(ctx, req.user)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyTradeDone, res.Initiator, res.TargetItem.Name, res.Target, res.InitiatorItem.Name,
		money(req.cfg, res.Fee))}, nil
}

func (r *Router) reject(ctx context.Context, req *request) ([]string, error) {
	if err := r.svc.Trades.Reject(ctx, req.user); err != nil {
		return nil, err
	}
	return []string{reply(ReplyTradeRejected, req.user)}, nil
}

func (r *Router) topCoins(ctx context.Context, req *request) ([]string, error) {
	return r.leaderboard(ctx, domain.LeaderboardCoins, ReplyTopCoins, func(a domain.Account) string {
		return fmt.Sprintf("%s (%s)", a.Username, number(a.Coins))
	})
}

func (r *Router) topXP(ctx context.Context, req *request) ([]string, error) {
	return r.leaderboard(ctx, domain.LeaderboardXP, ReplyTopXP, func(a domain.Account) string {
		return fmt.Sprintf("%s (Lvl %d)", a.Username, a.Level)
	})
}

func (r *Router) leaderboard(ctx context.Context, kind domain.LeaderboardKind, format string, row func(domain.Account) string) ([]string, error) {
	accounts, err := r.svc.Accounts.Leaderboard(ctx, kind, TopListSize)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return []string{ReplyTopEmpty}, nil
	}
	rows := make([]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, row(a))
	}
	return []string{reply(format, ranked(rows))}, nil
}

func (r *Router) topGames(ctx context.Context, req *request) ([]string, error) {
	items, err := r.svc.Catalog.TopDropped(ctx, TopListSize)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []string{ReplyTopEmpty}, nil
	}
	rows := make([]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, fmt.Sprintf("%s (%s)", item.Name, number(item.DropCount)))
	}
	return []string{reply(ReplyTopGames, ranked(rows))}, nil
}

func (r *Router) gift(ctx context.Context, req *request) ([]string, error) {
	to, amount, err := targetAndAmount(req.args, fmt.Sprintf(UsageGift, req.prefix))
	if err != nil {
		return nil, err
	}
	res, err := r.svc.Accounts.GiftCoins(ctx, req.user, to, amount)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyGift, res.From, money(req.cfg, res.Amount), res.To)}, nil
}

func (r *Router) addCoins(ctx context.Context, req *request) ([]string, error) {
	return r.adjustCoins(ctx, req, 1)
}

func (r *Router) removeCoins(ctx context.Context, req *request) ([]string, error) {
	return r.adjustCoins(ctx, req, -1)
}

func (r *Router) adjustCoins(ctx context.Context, req *request, sign int) ([]string, error) {
	target, amount, err := targetAndAmount(req.args, fmt.Sprintf(UsageAdjustCoins, req.prefix, req.name))
	if err != nil {
		return nil, err
	}
	if _, err := r.svc.Accounts.Get(ctx, target); err != nil {
		return nil, err
	}
	balance, err := r.svc.Accounts.AdminAdjustCoins(ctx, target, sign*amount)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyAdjusted, target, money(req.cfg, balance))}, nil
}

func (r *Router) reset(ctx context.Context, req *request) ([]string, error) {
	if len(req.args) < 1 || domain.NormalizeUsername(req.args[0]) == "" {
		return nil, &usageError{text: fmt.Sprintf(UsageReset, req.prefix)}
	}
	target := domain.NormalizeUsername(req.args[0])
	if err := r.svc.Accounts.Reset(ctx, target); err != nil {
		return nil, err
	}
	return []string{reply(ReplyReset, target)}, nil
}

func (r *Router) help(ctx context.Context, req *request) ([]string, error) {
	var names []string
	for _, c := range r.table {
		if c.hidden || req.cfg.Chat.CommandDisabled(c.name) {
			continue
		}
		names = append(names, req.prefix+c.name)
	}
	names = append(names, r.customHelp(ctx, req)...)
	sort.Strings(names)
	return []string{reply(ReplyHelp, strings.Join(names, ", "))}, nil
}

// rarities lists every tier with a non-zero chance, highest first. Odds
// are percentages.
func (r *Router) rarities(_ context.Context, req *request) ([]string, error) {
	var parts []string
	for i := len(req.cfg.Tiers) - 1; i >= 0; i-- {
		tier := req.cfg.Tiers[i]
		if odds := req.cfg.RarityOdds[tier]; odds > 0 {
			parts = append(parts, fmt.Sprintf("%s %s%%", tier, strconv.FormatFloat(odds, 'f', -1, 64)))
		}
	}
	return []string{reply(ReplyRarities, strings.Join(parts, " | "))}, nil
}

func (r *Router) giveBox(ctx context.Context, req *request) ([]string, error) {
	target, amount, err := targetAndAmount(req.args, fmt.Sprintf(UsageGiveBox, req.prefix))
	if err != nil {
		return nil, err
	}
	if _, err := r.svc.Accounts.Get(ctx, target); err != nil {
		return nil, err
	}
	boxes, err := r.svc.Accounts.AdminAdjustBoxes(ctx, target, amount)
	if err != nil {
		return nil, err
	}
	return []string{reply(ReplyBoxesAdjusted, target, boxes)}, nil
}

func (r *Router) userInfo(ctx context.Context, req *request) ([]string, error) {
	if len(req.args) < 1 || domain.NormalizeUsername(req.args[0]) == "" {
		return nil, &usageError{text: fmt.Sprintf(UsageUserInfo, req.prefix)}
	}
	target := domain.NormalizeUsername(req.args[0])
	if _, err := r.svc.Accounts.Get(ctx, target); err != nil {
		return nil, err
	}
	profile, err := r.svc.Accounts.Profile(ctx, target)
	if err != nil {
		return nil, err
	}
	acc := profile.Account
	return []string{reply(ReplyUserInfo, acc.Username, money(req.cfg, acc.Coins), acc.Boxes,
		countGames(profile.Inventory), acc.Level, acc.XP, acc.TotalBoxesOpened,
		money(req.cfg, acc.TotalCoinsEarned))}, nil
}

func countGames(lines []domain.InventoryLine) int {
	games := 0
	for _, line := range lines {
		games += line.Quantity
	}
	return games
}
