package chat

import "time"

// Command cooldown cache. Entries outlive any sane per-command cooldown;
// the live configured cooldown is compared against the stored time.
const (
	CooldownCacheSize = 4096
	CooldownCacheTTL  = 10 * time.Minute
)

// Leaderboard sizes shown in chat
const TopListSize = 5

// Announcement pool sizing
const (
	AnnouncerWorkers   = 2
	AnnouncerQueueSize = 64
)

// Canonical command names
const (
	CmdBuyBox      = "buybox"
	CmdOpenBox     = "openbox"
	CmdInventory   = "inventory"
	CmdProfile     = "profile"
	CmdDaily       = "daily"
	CmdTrade       = "trade"
	CmdAccept      = "accept"
	CmdReject      = "reject"
	CmdTopCoins    = "topcoins"
	CmdTopXP       = "topxp"
	CmdTopGames    = "topgames"
	CmdGift        = "gift"
	CmdAddCoins    = "addcoins"
	CmdRemoveCoins = "removecoins"
	CmdReset       = "reset"
	CmdHelp        = "help"
	CmdRarities    = "rarities"
	CmdGiveBox     = "givebox"
	CmdUserInfo    = "userinfo"
)

// CustomCommandLabel is the metrics label shared by all operator commands
const CustomCommandLabel = "custom"

// Template variables understood in custom command responses. Positional
// arguments are {arg1}, {arg2} and so on.
const (
	VarUser      = "{user}"
	VarBalance   = "{balance}"
	VarBoxes     = "{boxes}"
	VarLevel     = "{level}"
	VarTitle     = "{title}"
	VarXP        = "{xp}"
	VarInventory = "{inventory}"
	VarCurrency  = "{currency}"
	VarBoxPrice  = "{boxprice}"
	VarPrefix    = "{prefix}"
	VarArgs      = "{args}"
	VarArgFormat = "{arg%d}"
)

// ============================================================================
// Replies
// ============================================================================

const (
	ReplyPurchased     = "@%s bought %d box(es) for %s. Balance: %s, boxes: %d."
	ReplyOpened        = "@%s opened %d box(es): %s. Boxes left: %d."
	ReplyOpenedNothing = "@%s opened %d box(es) but every rolled tier was empty. Boxes left: %d."
	ReplyDepletedNote  = " (empty tiers: %s)"
	ReplyInventory     = "@%s has %d game(s): %s"
	ReplyInventoryNone = "@%s, your inventory is empty."
	ReplyProfile       = "@%s: %s • %d box(es) • %d game(s) • Level %d %s (%d XP)"
	ReplyDailyCoins    = "@%s claimed the daily reward: %s!"
	ReplyDailyFallback = "@%s claimed the daily reward: %s (the prize pool was empty)."
	ReplyDailyBox      = "@%s claimed the daily reward: %d box(es)!"
	ReplyDailyItem     = "@%s claimed the daily reward: %s [%s]!"
	ReplyTradeProposed = "@%s, @%s offers %s for your %s. Type %saccept or %sreject within %s."
	ReplyTradeDone     = "Trade done! @%s got %s and @%s got %s (fee %s each)."
	ReplyTradeRejected = "@%s rejected the trade."
	ReplyTopCoins      = "Richest: %s"
	ReplyTopXP         = "Top levels: %s"
	ReplyTopGames      = "Most dropped: %s"
	ReplyTopEmpty      = "Nobody here yet."
	ReplyGift          = "@%s gifted %s to @%s!"
	ReplyAdjusted      = "@%s now has %s."
	ReplyReset         = "@%s was reset."
	ReplyHelp          = "Commands: %s"
	ReplyRarities      = "Box odds: %s"
	ReplyBoxesAdjusted = "@%s now has %d box(es)."
	ReplyUserInfo      = "%s: %s • %d box(es) • %d game(s) • Level %d (%d XP) • %d opened • %s earned"
	ReplyError         = "@%s %s"
)

// Usage hints, formatted with the command prefix
const (
	UsageTrade       = "usage: %strade @user <your game> | <their game>"
	UsageGift        = "usage: %sgift @user <amount>"
	UsageAdjustCoins = "usage: %s%s @user <amount>"
	UsageReset       = "usage: %sreset @user"
	UsageGiveBox     = "usage: %sgivebox @user <amount>"
	UsageUserInfo    = "usage: %suserinfo @user"
)

// Announcements
const (
	AnnounceRareDrop  = "LEGENDARY DROP! @%s just got %s [%s]%s!"
	AnnounceFromDaily = " from the daily reward"
	AnnounceLevelUp   = "@%s reached level %d: %s!"
)

// Error replies
const (
	ErrReplyShort          = "you need %s more."
	ErrReplyCooldown       = "%s again in %s."
	ErrReplyOverLimit      = "you can buy between 1 and %d boxes at a time."
	ErrReplyNoBoxes        = "you don't have enough boxes."
	ErrReplyNotOwned       = "one of you no longer owns that game."
	ErrReplyNoPending      = "you have no pending trade."
	ErrReplyAlreadyPending = "one of you already has a pending trade."
	ErrReplySelfTrade      = "you can't trade with yourself."
	ErrReplyNotTradeable   = "that game can't be traded."
	ErrReplyItemNotFound   = "game not found."
	ErrReplyUserNotFound   = "user not found."
	ErrReplyDisabled       = "that's switched off right now."
	ErrReplyInvalid        = "invalid input."
	ErrReplyQuantity       = "that's not a valid amount."
	ErrReplyInternal       = "something went wrong, try again later."
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCommandFailed     = "Chat command failed"
	LogMsgCommandRejected   = "Chat command rejected"
	LogMsgMessageFailed     = "Failed to record chat message"
	LogMsgConfigUnavailable = "Economy config unavailable, ignoring chat message"
	LogMsgAnnounceFailed    = "Failed to deliver announcement"
	LogMsgAnnouncerReady    = "Announcer registered for event types"
	LogMsgAnnounceQueueFull = "Announcement dropped"
	LogMsgUnexpectedPayload = "Unexpected event payload"
	LogMsgCustomLookup      = "Failed to look up custom command"
	LogMsgCustomRender      = "Failed to render custom command"
	LogMsgCustomUsage       = "Failed to record custom command use"
)
