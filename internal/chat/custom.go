package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/metrics"
)

// accountVars need the caller's profile to render
var accountVars = []string{VarBalance, VarBoxes, VarLevel, VarTitle, VarXP, VarInventory}

// handleCustom answers an operator-defined command. Unknown, disabled or
// cooling down commands and admin commands from viewers stay silent.
func (r *Router) handleCustom(ctx context.Context, user string, fields []string, cfg *domain.EconomyConfig) []string {
	if r.svc.Commands == nil {
		return nil
	}
	log := logger.FromContext(ctx)

	cmd, err := r.svc.Commands.Get(ctx, fields[0])
	if err != nil {
		if !errors.Is(err, domain.ErrCommandNotFound) {
			log.Error(LogMsgCustomLookup, "command", fields[0], "error", err)
		}
		return nil
	}
	if !cmd.Enabled || cfg.Chat.CommandDisabled(cmd.Name) {
		return nil
	}
	if cmd.Level == domain.CommandLevelAdmin && !cfg.Chat.IsAdmin(user) {
		return nil
	}
	cooldown := cfg.Chat.CommandCooldownSeconds
	if cmd.CooldownSeconds > 0 {
		cooldown = cmd.CooldownSeconds
	}
	if !r.takeCooldown(user, cmd.Name, cooldown) {
		return nil
	}

	text, err := r.render(ctx, cmd.Response, user, fields[1:], cfg)
	if err != nil {
		log.Error(LogMsgCustomRender, "command", cmd.Name, "username", user, "error", err)
		metrics.ChatCommands.WithLabelValues(CustomCommandLabel, metrics.OutcomeError).Inc()
		return []string{reply(ReplyError, user, ErrReplyInternal)}
	}
	if err := r.svc.Commands.RecordUse(ctx, cmd.ID); err != nil {
		log.Warn(LogMsgCustomUsage, "command", cmd.Name, "error", err)
	}
	metrics.ChatCommands.WithLabelValues(CustomCommandLabel, metrics.OutcomeOK).Inc()
	return []string{text}
}

// render fills the response template. The profile is only loaded when an
// account variable appears.
func (r *Router) render(ctx context.Context, tmpl, user string, args []string, cfg *domain.EconomyConfig) (string, error) {
	pairs := []string{
		VarUser, user,
		VarCurrency, cfg.CurrencyName,
		VarBoxPrice, money(cfg, cfg.Box.Price),
		VarPrefix, cfg.Chat.Prefix,
		VarArgs, strings.Join(args, " "),
	}
	for i, arg := range args {
		pairs = append(pairs, fmt.Sprintf(VarArgFormat, i+1), arg)
	}

	if needsProfile(tmpl) {
		profile, err := r.svc.Accounts.Profile(ctx, user)
		if err != nil {
			return "", err
		}
		acc := profile.Account
		pairs = append(pairs,
			VarBalance, money(cfg, acc.Coins),
			VarBoxes, strconv.Itoa(acc.Boxes),
			VarLevel, strconv.Itoa(acc.Level),
			VarTitle, title(profile.LevelTitle),
			VarXP, number(acc.XP),
			VarInventory, strconv.Itoa(countGames(profile.Inventory)),
		)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}

func needsProfile(tmpl string) bool {
	for _, v := range accountVars {
		if strings.Contains(tmpl, v) {
			return true
		}
	}
	return false
}

// customHelp lists the enabled viewer-level custom commands
func (r *Router) customHelp(ctx context.Context, req *request) []string {
	if r.svc.Commands == nil {
		return nil
	}
	cmds, err := r.svc.Commands.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCustomLookup, "error", err)
		return nil
	}
	var names []string
	for _, c := range cmds {
		if !c.Enabled || c.Level == domain.CommandLevelAdmin || req.cfg.Chat.CommandDisabled(c.Name) {
			continue
		}
		names = append(names, req.prefix+c.Name)
	}
	return names
}
