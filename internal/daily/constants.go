package daily

// SpanClaim names the tracing span around a claim
const SpanClaim = "daily.claim"

// CooldownAction names the daily action in cooldown errors
const CooldownAction = "daily"

// EventSourceDaily marks rare drops that came from a daily claim
const EventSourceDaily = "daily"

const (
	LogMsgDailyClaimed  = "Daily reward claimed"
	LogMsgDailyFallback = "Daily item bucket had no candidates, paying coins"
	LogMsgPublishFailed = "Failed to publish daily event"
	ErrMsgDailyDisabled = "daily rewards are disabled"
)
