package box

// Span names
const (
	SpanPurchase = "box.purchase"
	SpanOpen     = "box.open"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgBoxesPurchased = "Boxes purchased"
	LogMsgBoxesOpened    = "Boxes opened"
	LogMsgRarityDepleted = "Rolled tier has no eligible items, box consumed"
	LogMsgOpenStopped    = "Box opening stopped early, keeping opened units"
	LogMsgPublishFailed  = "Failed to publish box event"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgQuantityRange = "quantity must be between 1 and %d"
	ErrMsgOpenQuantity  = "quantity must be at least 1"
	ErrMsgNotEnoughBox  = "%s has %d boxes, needs %d"
)

// EventSourceBox marks rare drops that came out of a box
const EventSourceBox = "box"
