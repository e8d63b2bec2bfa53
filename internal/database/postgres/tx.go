package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

// economyTx is one read-committed transaction. Row locks taken with
// FOR UPDATE are held until Commit or Rollback.
type economyTx struct {
	tx pgx.Tx
}

// BeginTx starts a unit of work
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	return &economyTx{tx: tx}, nil
}

func (t *economyTx) Commit(ctx context.Context) error {
	return closedErr(t.tx.Commit(ctx))
}

func (t *economyTx) Rollback(ctx context.Context) error {
	return closedErr(t.tx.Rollback(ctx))
}

func closedErr(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return repository.ErrTxClosed
	}
	return err
}

func (t *economyTx) GetAccountForUpdate(ctx context.Context, username string) (*domain.Account, error) {
	acc, err := scanAccount(t.tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = $1 FOR UPDATE`,
		domain.NormalizeUsername(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	return acc, nil
}

func (t *economyTx) LockAccounts(ctx context.Context, usernames ...string) ([]*domain.Account, error) {
	names := make([]string, 0, len(usernames))
	seen := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		n := domain.NormalizeUsername(u)
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)

	// Rows are locked in the ORDER BY order, matching the in-process lock order
	rows, err := t.tx.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = ANY($1) ORDER BY lower(username) FOR UPDATE`,
		names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	accounts, err := collect(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}

	found := make(map[string]bool, len(accounts))
	out := make([]*domain.Account, 0, len(accounts))
	for i := range accounts {
		found[accounts[i].Username] = true
		out = append(out, &accounts[i])
	}
	for _, n := range names {
		if !found[n] {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, n)
		}
	}
	return out, nil
}

// balance reads the current value of a counter column for error reporting
func (t *economyTx) balance(ctx context.Context, accountID, column string) (string, int, error) {
	var (
		username string
		value    int
	)
	err := t.tx.QueryRow(ctx, `SELECT username, `+column+` FROM accounts WHERE account_id = $1`, accountID).
		Scan(&username, &value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, domain.ErrUserNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	return username, value, nil
}

func (t *economyTx) AdjustCoins(ctx context.Context, accountID string, delta int) (int, error) {
	if !validID(accountID) {
		return 0, domain.ErrUserNotFound
	}
	var coins int
	err := t.tx.QueryRow(ctx, `
		UPDATE accounts
		SET coins = coins + $2,
			total_coins_earned = total_coins_earned + GREATEST($2, 0),
			updated_at = NOW()
		WHERE account_id = $1 AND coins + $2 >= 0
		RETURNING coins`, accountID, delta).Scan(&coins)
	if err == nil {
		return coins, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}

	username, have, err := t.balance(ctx, accountID, "coins")
	if err != nil {
		return 0, err
	}
	return have, &domain.InsufficientFundsError{Username: username, Required: -delta, Available: have}
}

func (t *economyTx) AdjustBoxes(ctx context.Context, accountID string, delta int) (int, error) {
	if !validID(accountID) {
		return 0, domain.ErrUserNotFound
	}
	var boxes int
	err := t.tx.QueryRow(ctx, `
		UPDATE accounts SET boxes = boxes + $2, updated_at = NOW()
		WHERE account_id = $1 AND boxes + $2 >= 0
		RETURNING boxes`, accountID, delta).Scan(&boxes)
	if err == nil {
		return boxes, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}

	username, have, err := t.balance(ctx, accountID, "boxes")
	if err != nil {
		return 0, err
	}
	return have, fmt.Errorf("%w: %s has %d boxes", domain.ErrInsufficientInventory, username, have)
}

func (t *economyTx) SaveProgress(ctx context.Context, account *domain.Account) error {
	if !validID(account.ID) {
		return domain.ErrUserNotFound
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET xp = $2, level = $3, total_boxes_opened = $4,
			last_daily_at = $5, last_message_at = $6, last_passive_at = $7, updated_at = NOW()
		WHERE account_id = $1`,
		account.ID, account.XP, account.Level, account.TotalBoxesOpened,
		account.LastDailyAt, account.LastMessageAt, account.LastPassiveAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *economyTx) ResetAccount(ctx context.Context, accountID string) error {
	if !validID(accountID) {
		return domain.ErrUserNotFound
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM inventory WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteInventory, err)
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET coins = 0, boxes = 0, xp = 0, level = 1, total_coins_earned = 0, total_boxes_opened = 0,
			last_daily_at = NULL, last_message_at = NULL, last_passive_at = NULL, updated_at = NOW()
		WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUpdateAccount, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *economyTx) GetItemQuantity(ctx context.Context, accountID, itemID string) (int, error) {
	if !validID(accountID) || !validID(itemID) {
		return 0, nil
	}
	var qty int
	err := t.tx.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE account_id = $1 AND item_id = $2`, accountID, itemID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgQueryInventory, err)
	}
	return qty, nil
}

func (t *economyTx) AddItem(ctx context.Context, accountID, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if !validID(accountID) {
		return domain.ErrUserNotFound
	}
	if !validID(itemID) {
		return domain.ErrItemNotFound
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory (account_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, item_id) DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity`,
		accountID, itemID, quantity)
	if err != nil {
		if mapped := mapConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%s: %w", ErrMsgWriteInventory, err)
	}
	return nil
}

func (t *economyTx) RemoveItem(ctx context.Context, accountID, itemID string, quantity int) error {
	if !validID(accountID) || !validID(itemID) {
		return fmt.Errorf("%w: has 0 of %s, needs %d", domain.ErrInsufficientInventory, itemID, quantity)
	}
	var have int
	err := t.tx.QueryRow(ctx, `
		SELECT quantity FROM inventory WHERE account_id = $1 AND item_id = $2 FOR UPDATE`,
		accountID, itemID).Scan(&have)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ErrMsgQueryInventory, err)
	}
	if have < quantity {
		return fmt.Errorf("%w: has %d of %s, needs %d", domain.ErrInsufficientInventory, have, itemID, quantity)
	}

	// quantity > 0 is a table constraint, so the last copy deletes the row
	if have == quantity {
		_, err = t.tx.Exec(ctx, `DELETE FROM inventory WHERE account_id = $1 AND item_id = $2`, accountID, itemID)
	} else {
		_, err = t.tx.Exec(ctx, `
			UPDATE inventory SET quantity = quantity - $3 WHERE account_id = $1 AND item_id = $2`,
			accountID, itemID, quantity)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteInventory, err)
	}
	return nil
}

func (t *economyTx) IncrementDropCount(ctx context.Context, itemID string, n int) error {
	if !validID(itemID) {
		return domain.ErrItemNotFound
	}
	tag, err := t.tx.Exec(ctx,
		`UPDATE catalog_items SET drop_count = drop_count + $2 WHERE item_id = $1`, itemID, n)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteItem, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (t *economyTx) CreateTrade(ctx context.Context, trade *domain.Trade) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO trades (trade_id, initiator, target, initiator_item_id, initiator_item_name,
			target_item_id, target_item_name, fee, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		trade.ID, trade.Initiator, trade.Target, trade.InitiatorItemID, trade.InitiatorItemName,
		trade.TargetItemID, trade.TargetItemName, trade.Fee, trade.Status, trade.CreatedAt, trade.ExpiresAt)
	if err != nil {
		if mapped := mapConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%s: %w", ErrMsgWriteTrade, err)
	}
	return nil
}

func (t *economyTx) GetTradeForUpdate(ctx context.Context, tradeID string) (*domain.Trade, error) {
	if !validID(tradeID) {
		return nil, domain.ErrTradeNotFound
	}
	trade, err := scanTrade(t.tx.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE trade_id = $1 FOR UPDATE`, tradeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return trade, nil
}

func (t *economyTx) ListPendingTrades(ctx context.Context, usernames ...string) ([]domain.Trade, error) {
	names := make([]string, 0, len(usernames))
	for _, u := range usernames {
		names = append(names, domain.NormalizeUsername(u))
	}
	rows, err := t.tx.Query(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE status = 'pending' AND (initiator = ANY($1) OR target = ANY($1))
		ORDER BY seq
		FOR UPDATE`, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return collect(rows, scanTrade)
}

func (t *economyTx) SetTradeStatus(ctx context.Context, tradeID string, status domain.TradeStatus, resolvedAt time.Time) error {
	if !validID(tradeID) {
		return domain.ErrTradeNotFound
	}
	var current domain.TradeStatus
	err := t.tx.QueryRow(ctx, `
		UPDATE trades SET status = $2, resolved_at = $3
		WHERE trade_id = $1 AND status = 'pending'
		RETURNING status`, tradeID, status, resolvedAt).Scan(&current)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ErrMsgWriteTrade, err)
	}

	err = t.tx.QueryRow(ctx, `SELECT status FROM trades WHERE trade_id = $1`, tradeID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTradeNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return fmt.Errorf("%w: trade %s already %s", domain.ErrConcurrencyConflict, tradeID, current)
}
