package handler

// Client-facing error messages. Internal error details never reach the response.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidKind           = "Invalid leaderboard kind. Valid options: coins, xp"
	ErrMsgInvalidBool           = "Invalid %s parameter"
	ErrMsgMissingPathParam      = "Missing %s"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUserNotFound          = "User not found"
	ErrMsgItemNotFound          = "Item not found"
	ErrMsgTradeNotFound         = "Trade not found"
	ErrMsgCommandNotFound       = "Command not found"
	ErrMsgCommandExists         = "That command name or alias is already in use"
	ErrMsgResourceNotFound      = "Resource not found"
	ErrMsgNotEnoughCoins        = "Not enough coins"
	ErrMsgNotEnoughCoinsFormat  = "Not enough coins: need %d, have %d"
	ErrMsgInsufficientInventory = "Not enough boxes or items"
	ErrMsgOverLimit             = "Quantity is outside the allowed range"
	ErrMsgNoPendingTrade        = "No pending trade"
	ErrMsgAlreadyPending        = "A trade is already pending for one of the players"
	ErrMsgSelfTrade             = "You cannot trade with yourself"
	ErrMsgNotTradeable          = "That item is not tradeable"
	ErrMsgOnCooldown            = "Action is on cooldown. Try again later"
	ErrMsgFeatureDisabled       = "That feature is disabled"
	ErrMsgUltraTierTaken        = "The ultra tier is already assigned to another item"
	ErrMsgUnknownRarity         = "Unknown rarity tier"
	ErrMsgInvalidConfig         = "Invalid economy configuration"
	ErrMsgConflict              = "The request conflicted with another update. Please retry"
	ErrMsgDepleted              = "No items are available for that rarity"
)

// Success messages
const (
	MsgAccountReset   = "Account reset"
	MsgTradeRejected  = "Trade rejected"
	MsgRarityCleared  = "Custom rarity cleared"
	MsgCommandDeleted = "Command deleted"
	MsgStatusOK       = "ok"
	MsgStatusDegraded = "degraded"
	MsgStatusDown     = "unavailable"
)

// Log messages
const (
	LogMsgDecodeFailed    = "Failed to decode request"
	LogMsgRequestDecoded  = "Request decoded"
	LogMsgServiceError    = "Service call failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgBoxesPurchased  = "Boxes purchased"
	LogMsgBoxesOpened     = "Boxes opened"
	LogMsgDailyClaimed    = "Daily reward claimed"
	LogMsgTradeProposed   = "Trade proposed"
	LogMsgTradeAccepted   = "Trade accepted"
	LogMsgTradeRejected   = "Trade rejected"
	LogMsgAccountReset    = "Account reset"
	LogMsgCoinsAdjusted   = "Coins adjusted"
	LogMsgBoxesAdjusted   = "Boxes adjusted"
	LogMsgCommandCreated  = "Chat command created"
	LogMsgCommandUpdated  = "Chat command updated"
	LogMsgCommandDeleted  = "Chat command deleted"
	LogMsgCatalogUpserted = "Catalog item upserted"
	LogMsgCatalogUpdated  = "Catalog item updated"
	LogMsgConfigReplaced  = "Economy config replaced"
	LogMsgOddsUpdated     = "Rarity odds updated"
	LogMsgChatHandled     = "Chat message handled"
)

// Query parameters and limits
const (
	QueryLimit           = "limit"
	QueryUsername        = "username"
	QueryKind            = "kind"
	QueryRarity          = "rarity"
	QuerySearch          = "q"
	QueryIncludeDisabled = "include_disabled"

	ParamUsername = "username"
	ParamItemID   = "id"
	ParamCommand  = "name"

	DefaultListLimit = 10
	MaxListLimit     = 100

	// ReadinessTimeoutSeconds bounds each readiness check
	ReadinessTimeoutSeconds = 2
)
