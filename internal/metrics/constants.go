package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Economy metric names
const (
	MetricNameBoxesPurchased = "gamebox_boxes_purchased_total"
	MetricNameBoxesOpened    = "gamebox_boxes_opened_total"
	MetricNameItemDrops      = "gamebox_item_drops_total"
	MetricNameDepletions     = "gamebox_rarity_depletions_total"
	MetricNameDailyClaims    = "gamebox_daily_claims_total"
	MetricNameTrades         = "gamebox_trades_total"
	MetricNameCoinsGifted    = "gamebox_coins_gifted_total"
	MetricNamePassiveIncome  = "gamebox_passive_income_coins_total"
	MetricNameLevelUps       = "gamebox_level_ups_total"
	MetricNameChatCommands   = "gamebox_chat_commands_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Economy metric help text
const (
	HelpTextBoxesPurchased = "Total number of boxes bought with coins"
	HelpTextBoxesOpened    = "Total number of boxes opened"
	HelpTextItemDrops      = "Items awarded by boxes and daily claims, by rarity"
	HelpTextDepletions     = "Box rolls that landed on a tier with no eligible items"
	HelpTextDailyClaims    = "Successful daily claims by outcome"
	HelpTextTrades         = "Trade transitions by resulting status"
	HelpTextCoinsGifted    = "Coins moved between viewers by gifts"
	HelpTextPassiveIncome  = "Coins paid out by passive income ticks"
	HelpTextLevelUps       = "Number of level ups"
	HelpTextChatCommands   = "Chat commands handled, by command and outcome"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelRarity  = "rarity"
	LabelSource  = "source"
	LabelKind    = "kind"
	LabelCommand = "command"
	LabelOutcome = "outcome"
)

// Label values
const (
	SourceBox   = "box"
	SourceDaily = "daily"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"

	// PathUnmatched labels requests that no route matched
	PathUnmatched = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
)
