package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Economy Metrics
var (
	BoxesPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBoxesPurchased,
			Help: HelpTextBoxesPurchased,
		},
	)

	BoxesOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBoxesOpened,
			Help: HelpTextBoxesOpened,
		},
	)

	ItemDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemDrops,
			Help: HelpTextItemDrops,
		},
		[]string{LabelSource, LabelRarity},
	)

	Depletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDepletions,
			Help: HelpTextDepletions,
		},
		[]string{LabelRarity},
	)

	DailyClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDailyClaims,
			Help: HelpTextDailyClaims,
		},
		[]string{LabelKind},
	)

	Trades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTrades,
			Help: HelpTextTrades,
		},
		[]string{LabelStatus},
	)

	CoinsGifted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsGifted,
			Help: HelpTextCoinsGifted,
		},
	)

	PassiveIncomePaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePassiveIncome,
			Help: HelpTextPassiveIncome,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	ChatCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChatCommands,
			Help: HelpTextChatCommands,
		},
		[]string{LabelCommand, LabelOutcome},
	)
)
