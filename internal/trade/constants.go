package trade

// Span names
const (
	SpanPropose = "trade.propose"
	SpanAccept  = "trade.accept"
	SpanReject  = "trade.reject"
)

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Reasons recorded on rejected trade events
const (
	ReasonRejectedByTarget  = "rejected by target"
	ReasonFundsChanged      = "a party can no longer pay the fee"
	ReasonOwnershipChanged  = "a party no longer owns the offered item"
	ReasonExpiredOnAccept   = "expired before it was accepted"
	ReasonExpiredOnReject   = "expired before it was rejected"
	ReasonExpiredOnNewTrade = "expired before a new trade was proposed"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgTradeProposed  = "Trade proposed"
	LogMsgTradeCompleted = "Trade completed"
	LogMsgTradeRejected  = "Trade rejected"
	LogMsgTradeExpired   = "Trade expired"
	LogMsgTradesSwept    = "Expired stale trades"
	LogMsgPublishFailed  = "Failed to publish trade event"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgTradingDisabled = "trading is disabled"
	ErrMsgNotOwned        = "%s does not own %s"
	ErrMsgNotInInventory  = "%q is not in %s's inventory"
)
