package chat

import (
	"errors"
	"fmt"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// errBadQuantity is a non-numeric or non-positive amount argument
var errBadQuantity = fmt.Errorf("%w: bad quantity", domain.ErrInvalidInput)

// describeError turns a service error into reply text for the caller
func describeError(err error, cfg *domain.EconomyConfig, prefix string) string {
	var usage *usageError
	if errors.As(err, &usage) {
		return usage.text
	}

	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		return fmt.Sprintf(ErrReplyShort, money(cfg, funds.Shortfall()))
	}

	var cooldown *domain.CooldownError
	if errors.As(err, &cooldown) {
		return fmt.Sprintf(ErrReplyCooldown, prefix+cooldown.Action, humanDuration(cooldown.Remaining))
	}

	switch {
	case errors.Is(err, errBadQuantity):
		return ErrReplyQuantity
	case errors.Is(err, domain.ErrOverLimit):
		return fmt.Sprintf(ErrReplyOverLimit, cfg.Box.MaxPerPurchase)
	case errors.Is(err, domain.ErrInsufficientInventory):
		return ErrReplyNotOwned
	case errors.Is(err, domain.ErrNoPendingTrade):
		return ErrReplyNoPending
	case errors.Is(err, domain.ErrAlreadyPending):
		return ErrReplyAlreadyPending
	case errors.Is(err, domain.ErrSelfTrade):
		return ErrReplySelfTrade
	case errors.Is(err, domain.ErrNotTradeable):
		return ErrReplyNotTradeable
	case errors.Is(err, domain.ErrItemNotFound):
		return ErrReplyItemNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return ErrReplyUserNotFound
	case errors.Is(err, domain.ErrFeatureDisabled):
		return ErrReplyDisabled
	case errors.Is(err, domain.ErrInvalidInput):
		return ErrReplyInvalid
	default:
		return ErrReplyInternal
	}
}
