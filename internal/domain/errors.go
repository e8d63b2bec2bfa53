package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgNotFound      = "not found"
	ErrMsgUserNotFound  = "user not found"
	ErrMsgItemNotFound  = "item not found"
	ErrMsgTradeNotFound = "trade not found"
	ErrMsgCommandExists = "command name or alias already in use"

	// Balance errors
	ErrMsgInsufficientFunds     = "insufficient funds"
	ErrMsgInsufficientInventory = "insufficient inventory"
	ErrMsgOverLimit             = "quantity exceeds maximum"

	// Trade errors
	ErrMsgNoPendingTrade = "no pending trade"
	ErrMsgAlreadyPending = "a trade is already pending"
	ErrMsgSelfTrade      = "cannot trade with yourself"
	ErrMsgNotTradeable   = "item is not tradeable"

	// Gate errors
	ErrMsgCooldownActive  = "cooldown active"
	ErrMsgFeatureDisabled = "feature disabled"

	// Catalog errors
	ErrMsgDepleted       = "no catalog items available for rarity"
	ErrMsgUltraTierTaken = "ultra rarity tier is already assigned"
	ErrMsgUnknownRarity  = "unknown rarity tier"

	// Storage errors
	ErrMsgConcurrencyConflict = "concurrent update conflict"
	ErrMsgTxClosed            = "tx is closed"

	// Input errors
	ErrMsgInvalidInput  = "invalid input"
	ErrMsgInvalidConfig = "invalid economy config"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotFound      = errors.New(ErrMsgNotFound)
	ErrUserNotFound  = fmt.Errorf("%w: %s", ErrNotFound, "user")
	ErrItemNotFound  = fmt.Errorf("%w: %s", ErrNotFound, "item")
	ErrTradeNotFound = fmt.Errorf("%w: %s", ErrNotFound, "trade")

	ErrCommandNotFound = fmt.Errorf("%w: %s", ErrNotFound, "command")
	ErrCommandExists   = errors.New(ErrMsgCommandExists)

	ErrInsufficientFunds     = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientInventory = errors.New(ErrMsgInsufficientInventory)
	ErrOverLimit             = errors.New(ErrMsgOverLimit)

	ErrNoPendingTrade = errors.New(ErrMsgNoPendingTrade)
	ErrAlreadyPending = errors.New(ErrMsgAlreadyPending)

	ErrCooldownActive  = errors.New(ErrMsgCooldownActive)
	ErrFeatureDisabled = errors.New(ErrMsgFeatureDisabled)

	ErrDepleted       = errors.New(ErrMsgDepleted)
	ErrUltraTierTaken = errors.New(ErrMsgUltraTierTaken)

	ErrConcurrencyConflict = errors.New(ErrMsgConcurrencyConflict)

	ErrInvalidInput  = errors.New(ErrMsgInvalidInput)
	ErrSelfTrade     = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgSelfTrade)
	ErrNotTradeable  = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgNotTradeable)
	ErrUnknownRarity = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgUnknownRarity)
	ErrInvalidConfig = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidConfig)
)

// InsufficientFundsError carries the amount a caller was short by.
type InsufficientFundsError struct {
	Username  string
	Required  int
	Available int
}

// Shortfall is how many coins are missing, never negative.
func (e *InsufficientFundsError) Shortfall() int {
	if e.Available >= e.Required {
		return 0
	}
	return e.Required - e.Available
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %s needs %d, has %d (short %d)",
		ErrMsgInsufficientFunds, e.Username, e.Required, e.Available, e.Shortfall())
}

// Is allows errors.Is(err, ErrInsufficientFunds)
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// CooldownError is returned when an action is still gated by a cooldown window.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %s available in %s", ErrMsgCooldownActive, e.Action, e.Remaining.Round(time.Second))
}

// Is allows errors.Is(err, ErrCooldownActive)
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// NewCooldownError clamps negative remaining durations to zero.
func NewCooldownError(action string, remaining time.Duration) *CooldownError {
	if remaining < 0 {
		remaining = 0
	}
	return &CooldownError{Action: action, Remaining: remaining}
}
