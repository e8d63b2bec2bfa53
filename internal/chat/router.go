// Package chat turns chat lines into economy operations and reply text.
// Transports (Twitch relay, Discord, the REST bridge) only move strings.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/GameBoxBot_Go/internal/account"
	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/metrics"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/trade"
)

// Message is one chat line from any transport
type Message struct {
	Username    string `json:"username" validate:"required,max=64"`
	DisplayName string `json:"display_name,omitempty" validate:"max=64"`
	Text        string `json:"text" validate:"required,max=500"`
}

// Services are the economy operations the router dispatches to
type Services struct {
	Accounts account.Service
	Boxes    box.Service
	Daily    daily.Service
	Trades   trade.Service
	Catalog  catalog.Service
	// Commands is optional; without it only built-ins answer
	Commands command.Service
}

// request is one parsed command invocation
type request struct {
	msg    Message
	user   string
	name   string
	args   []string
	cfg    *domain.EconomyConfig
	prefix string
}

type handlerFunc func(ctx context.Context, req *request) ([]string, error)

type builtin struct {
	name       string
	aliases    []string
	admin      bool
	noCooldown bool
	hidden     bool
	handle     handlerFunc
}

// Router dispatches prefixed chat lines to command handlers and feeds every
// other line to the activity reward
type Router struct {
	svc       Services
	settings  settings.Provider
	table     []*builtin
	commands  map[string]*builtin
	cooldowns *expirable.LRU[string, time.Time]
	now       func() time.Time
}

// NewRouter creates a new Router
func NewRouter(svc Services, provider settings.Provider) *Router {
	r := &Router{
		svc:       svc,
		settings:  provider,
		commands:  make(map[string]*builtin),
		cooldowns: expirable.NewLRU[string, time.Time](CooldownCacheSize, nil, CooldownCacheTTL),
		now:       time.Now,
	}
	r.table = builtins(r)
	for _, c := range r.table {
		r.commands[c.name] = c
		for _, alias := range c.aliases {
			r.commands[alias] = c
		}
	}
	return r
}

// builtins is the static command table. r may be nil when only the names
// are wanted.
func builtins(r *Router) []*builtin {
	return []*builtin{
		{name: CmdBuyBox, aliases: []string{"buy"}, handle: r.buyBox},
		{name: CmdOpenBox, aliases: []string{"open"}, handle: r.openBox},
		{name: CmdInventory, aliases: []string{"inv"}, handle: r.inventory},
		{name: CmdProfile, aliases: []string{"coins", "balance", "me"}, handle: r.profile},
		{name: CmdDaily, aliases: []string{"bonus"}, handle: r.daily},
		{name: CmdTrade, handle: r.trade},
		{name: CmdAccept, aliases: []string{"sim", "yes"}, noCooldown: true, hidden: true, handle: r.accept},
		{name: CmdReject, aliases: []string{"nao", "no"}, noCooldown: true, hidden: true, handle: r.reject},
		{name: CmdTopCoins, aliases: []string{"rich"}, handle: r.topCoins},
		{name: CmdTopXP, handle: r.topXP},
		{name: CmdTopGames, handle: r.topGames},
		{name: CmdGift, aliases: []string{"giftcoins", "give"}, handle: r.gift},
		{name: CmdRarities, aliases: []string{"odds"}, handle: r.rarities},
		{name: CmdAddCoins, admin: true, noCooldown: true, hidden: true, handle: r.addCoins},
		{name: CmdRemoveCoins, admin: true, noCooldown: true, hidden: true, handle: r.removeCoins},
		{name: CmdGiveBox, admin: true, noCooldown: true, hidden: true, handle: r.giveBox},
		{name: CmdUserInfo, admin: true, noCooldown: true, hidden: true, handle: r.userInfo},
		{name: CmdReset, admin: true, noCooldown: true, hidden: true, handle: r.reset},
		{name: CmdHelp, aliases: []string{"commands"}, handle: r.help},
	}
}

// BuiltinNames lists every built-in command name and alias. Custom commands
// may not claim them.
func BuiltinNames() []string {
	var names []string
	for _, c := range builtins(nil) {
		names = append(names, c.name)
		names = append(names, c.aliases...)
	}
	return names
}

// Handle processes one chat line and returns the replies to post, if any.
// Banned users, disabled or unknown commands, admin commands from
// non-admins and commands still on cooldown produce no reply.
func (r *Router) Handle(ctx context.Context, msg Message) []string {
	log := logger.FromContext(ctx)

	cfg, err := r.settings.Snapshot(ctx)
	if err != nil {
		log.Error(LogMsgConfigUnavailable, "error", err)
		return nil
	}
	user := domain.NormalizeUsername(msg.Username)
	if user == "" || cfg.Chat.IsBanned(user) {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	prefix := cfg.Chat.Prefix
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		if _, err := r.svc.Accounts.RecordMessage(ctx, user, msg.DisplayName); err != nil {
			log.Warn(LogMsgMessageFailed, "username", user, "error", err)
		}
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := r.commands[strings.ToLower(fields[0])]
	if !ok {
		return r.handleCustom(ctx, user, fields, cfg)
	}
	if cfg.Chat.CommandDisabled(cmd.name) {
		return nil
	}
	if cmd.admin && !cfg.Chat.IsAdmin(user) {
		return nil
	}
	if !cmd.noCooldown && !r.takeCooldown(user, cmd.name, cfg.Chat.CommandCooldownSeconds) {
		return nil
	}

	req := &request{
		msg:    msg,
		user:   user,
		name:   cmd.name,
		args:   fields[1:],
		cfg:    cfg,
		prefix: prefix,
	}
	replies, err := cmd.handle(ctx, req)
	if err != nil {
		outcome := metrics.OutcomeRejected
		if isInternal(err) {
			outcome = metrics.OutcomeError
			log.Error(LogMsgCommandFailed, "command", cmd.name, "username", user, "error", err)
		} else {
			log.Debug(LogMsgCommandRejected, "command", cmd.name, "username", user, "error", err)
		}
		metrics.ChatCommands.WithLabelValues(cmd.name, outcome).Inc()
		return []string{reply(ReplyError, user, describeError(err, cfg, prefix))}
	}
	metrics.ChatCommands.WithLabelValues(cmd.name, metrics.OutcomeOK).Inc()
	return replies
}

// takeCooldown reports whether user may run name now and, if so, starts
// the cooldown
func (r *Router) takeCooldown(user, name string, seconds int) bool {
	if seconds <= 0 {
		return true
	}
	key := user + ":" + name
	now := r.now()
	if last, ok := r.cooldowns.Get(key); ok && now.Sub(last) < time.Duration(seconds)*time.Second {
		return false
	}
	r.cooldowns.Add(key, now)
	return true
}

// usageError is a malformed command; its text is the reply
type usageError struct {
	text string
}

func (e *usageError) Error() string { return e.text }

func isInternal(err error) bool {
	var usage *usageError
	if errors.As(err, &usage) {
		return false
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrInsufficientFunds,
		domain.ErrInsufficientInventory,
		domain.ErrOverLimit,
		domain.ErrNoPendingTrade,
		domain.ErrAlreadyPending,
		domain.ErrCooldownActive,
		domain.ErrFeatureDisabled,
		domain.ErrInvalidInput,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}
