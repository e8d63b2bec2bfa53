package domain

// PurchaseResult is returned by a box purchase
type PurchaseResult struct {
	BoxesPurchased int `json:"boxes_purchased"`
	CoinsSpent     int `json:"coins_spent"`
	RemainingCoins int `json:"remaining_coins"`
	TotalBoxes     int `json:"total_boxes"`
}

// DroppedItem is a catalog item awarded by a box or daily roll
type DroppedItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Platform string `json:"platform"`
	Announce bool   `json:"announce"`
}

// OpenResult is returned by a box open. Items may be shorter than BoxesOpened
// when a rolled tier had no eligible items.
type OpenResult struct {
	BoxesOpened    int           `json:"boxes_opened"`
	Items          []DroppedItem `json:"items_obtained"`
	RemainingBoxes int           `json:"remaining_boxes"`
	Depleted       []Rarity      `json:"depleted,omitempty"`
}

// DailyOutcome is the bucket a daily claim landed in
type DailyOutcome string

const (
	DailyOutcomeCoins DailyOutcome = "coins"
	DailyOutcomeBox   DailyOutcome = "box"
	DailyOutcomeItem  DailyOutcome = "item"
)

// DailyResult is returned by a successful daily claim
type DailyResult struct {
	Kind     DailyOutcome `json:"kind"`
	Amount   int          `json:"amount"`
	Item     *DroppedItem `json:"item,omitempty"`
	Rare     bool         `json:"rare,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
}

// MessageResult is the effect of one chat message on an account
type MessageResult struct {
	CoinsAwarded int  `json:"coins_awarded"`
	XPAwarded    int  `json:"xp_awarded"`
	LeveledUp    bool `json:"leveled_up"`
	Level        int  `json:"level"`
}

// GiftResult is returned by a coin gift
type GiftResult struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Amount         int    `json:"amount"`
	SenderCoins    int    `json:"sender_coins"`
	RecipientCoins int    `json:"recipient_coins"`
}
