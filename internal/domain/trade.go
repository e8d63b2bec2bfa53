package domain

import "time"

// TradeStatus is the lifecycle state of a trade
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusExpired   TradeStatus = "expired"
)

// Terminal reports whether s can no longer change
func (s TradeStatus) Terminal() bool {
	return s == TradeStatusCompleted || s == TradeStatusRejected || s == TradeStatusExpired
}

// Trade is a two-party swap proposal of one item each
type Trade struct {
	ID                string      `json:"id"`
	Initiator         string      `json:"initiator"`
	Target            string      `json:"target"`
	InitiatorItemID   string      `json:"initiator_item_id"`
	InitiatorItemName string      `json:"initiator_item_name"`
	TargetItemID      string      `json:"target_item_id"`
	TargetItemName    string      `json:"target_item_name"`
	Fee               int         `json:"fee"`
	Status            TradeStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	ExpiresAt         time.Time   `json:"expires_at"`
	ResolvedAt        *time.Time  `json:"resolved_at,omitempty"`
}

// Open reports whether the trade can still be accepted at now.
// A pending trade at or past its expiry is no longer open.
func (t *Trade) Open(now time.Time) bool {
	return t.Status == TradeStatusPending && now.Before(t.ExpiresAt)
}

// Involves reports whether username is either party
func (t *Trade) Involves(username string) bool {
	return t.Initiator == username || t.Target == username
}

// TradeItem identifies one side of a trade
type TradeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TradeResult is returned by a successful accept
type TradeResult struct {
	TradeID       string    `json:"trade_id"`
	Initiator     string    `json:"initiator"`
	Target        string    `json:"target"`
	InitiatorItem TradeItem `json:"initiator_item"`
	TargetItem    TradeItem `json:"target_item"`
	Fee           int       `json:"fee"`
}

// TradeStat is a count of trades in one status
type TradeStat struct {
	Status TradeStatus `json:"status"`
	Count  int         `json:"count"`
}
