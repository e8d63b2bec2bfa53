package account

import "time"

// Identity cache sizing. Only immutable identity fields are cached.
const (
	IdentityCacheSize = 2048
	IdentityCacheTTL  = 10 * time.Minute
)

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgLevelUp          = "Account leveled up"
	LogMsgCoinsGifted      = "Coins gifted"
	LogMsgCoinsAdjusted    = "Coins adjusted by admin"
	LogMsgBoxesAdjusted    = "Boxes adjusted by admin"
	LogMsgAccountReset     = "Account reset"
	LogMsgPassivePaid      = "Passive income paid"
	LogMsgPassiveFailed    = "Passive income failed for account"
	LogMsgPublishFailed    = "Failed to publish account event"
	LogMsgMessageThrottled = "Message reward still on cooldown"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgGiftAmount     = "gift amount must be positive"
	ErrMsgGiftSelf       = "cannot gift coins to yourself"
	ErrMsgEmptyUsername  = "username is required"
	ErrMsgZeroAdjustment = "adjustment must not be zero"
)
