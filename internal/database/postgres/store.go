// Package postgres is the pgx-backed repository.Store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

// Store implements repository.Store on a pgx pool
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool
func (s *Store) Close() {
	s.db.Close()
}

// ---- Row mapping ----

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.DisplayName, &a.Coins, &a.Boxes, &a.XP, &a.Level,
		&a.TotalCoinsEarned, &a.TotalBoxesOpened, &a.LastDailyAt, &a.LastMessageAt, &a.LastPassiveAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanItem(row pgx.Row) (*domain.CatalogItem, error) {
	var c domain.CatalogItem
	err := row.Scan(&c.ID, &c.Name, &c.Platform, &c.ReleaseYear, &c.QualityScore, &c.Rarity, &c.CustomRarity,
		&c.Disabled, &c.Tradeable, &c.BoxObtainable, &c.Popularity, &c.DropCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	err := row.Scan(&t.ID, &t.Initiator, &t.Target, &t.InitiatorItemID, &t.InitiatorItemName,
		&t.TargetItemID, &t.TargetItemName, &t.Fee, &t.Status, &t.CreatedAt, &t.ExpiresAt, &t.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgScanRow, err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// pgError returns the server error behind err, if any
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// mapConstraint turns constraint violations into domain errors
func mapConstraint(err error) error {
	pgErr, ok := pgError(err)
	if !ok {
		return err
	}
	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintCommandName:
		return domain.ErrCommandExists
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintCustomRarity:
		return domain.ErrUltraTierTaken
	case pgErr.Code == pgUniqueViolation &&
		(pgErr.ConstraintName == constraintPendingByInit || pgErr.ConstraintName == constraintPendingByTgt):
		return domain.ErrAlreadyPending
	case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraintInventoryItem:
		return domain.ErrItemNotFound
	case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraintInventoryAcct:
		return domain.ErrUserNotFound
	}
	return err
}

// validID reports whether id can be bound to a uuid column
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ---- Accounts ----

func (s *Store) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = $1`, domain.NormalizeUsername(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	return acc, nil
}

func (s *Store) FindOrCreateAccount(ctx context.Context, username, displayName string) (*domain.Account, error) {
	name := domain.NormalizeUsername(username)
	if displayName == "" {
		displayName = username
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (account_id, username, display_name, level)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT DO NOTHING`,
		uuid.NewString(), name, displayName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInsertAccount, err)
	}
	return s.GetAccount(ctx, name)
}

func (s *Store) GetInventory(ctx context.Context, accountID string) ([]domain.InventoryLine, error) {
	if !validID(accountID) {
		return []domain.InventoryLine{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT c.item_id::text, c.name, c.platform, c.rarity, c.tradeable, i.quantity
		FROM inventory i
		JOIN catalog_items c ON c.item_id = i.item_id
		WHERE i.account_id = $1
		ORDER BY c.name`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryInventory, err)
	}
	lines, err := collect(rows, func(row pgx.Row) (*domain.InventoryLine, error) {
		var l domain.InventoryLine
		if err := row.Scan(&l.ItemID, &l.Name, &l.Platform, &l.Rarity, &l.Tradeable, &l.Quantity); err != nil {
			return nil, err
		}
		return &l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryInventory, err)
	}
	if lines == nil {
		lines = []domain.InventoryLine{}
	}
	return lines, nil
}

func (s *Store) TopAccounts(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error) {
	order := "coins DESC"
	if kind == domain.LeaderboardXP {
		order = "xp DESC"
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY `+order+`, username LIMIT NULLIF($1::int, 0)`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	return collect(rows, scanAccount)
}

func (s *Store) ActiveAccountsSince(ctx context.Context, since time.Time) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE last_message_at >= $1 ORDER BY username`, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryAccount, err)
	}
	return collect(rows, scanAccount)
}

// ---- Catalog ----

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	if !validID(itemID) {
		return nil, domain.ErrItemNotFound
	}
	item, err := scanItem(s.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE item_id = $1`, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return item, nil
}

func (s *Store) GetItemByName(ctx context.Context, name string) (*domain.CatalogItem, error) {
	item, err := scanItem(s.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE lower(name) = lower($1)`, strings.TrimSpace(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error) {
	var (
		where []string
		args  []interface{}
	)
	if !filter.IncludeDisabled {
		where = append(where, "NOT disabled")
	}
	if filter.Rarity != "" {
		args = append(args, filter.Rarity)
		where = append(where, fmt.Sprintf("rarity = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		where = append(where, fmt.Sprintf("lower(name) LIKE $%d", len(args)))
	}
	query := `SELECT ` + itemColumns + ` FROM catalog_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY name LIMIT NULLIF($%d::int, 0)", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return collect(rows, scanItem)
}

func (s *Store) ListBoxCandidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+itemColumns+` FROM catalog_items
		WHERE rarity = $1 AND NOT disabled AND box_obtainable
		ORDER BY item_id`, rarity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return collect(rows, scanItem)
}

func (s *Store) UpsertItem(ctx context.Context, item *domain.CatalogItem) error {
	if item.ID == "" || !validID(item.ID) {
		item.ID = uuid.NewString()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO catalog_items (item_id, name, platform, release_year, quality_score, rarity, custom_rarity,
			disabled, tradeable, box_obtainable, popularity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ((lower(name))) DO UPDATE SET
			name = EXCLUDED.name,
			platform = EXCLUDED.platform,
			release_year = EXCLUDED.release_year,
			quality_score = EXCLUDED.quality_score,
			rarity = EXCLUDED.rarity,
			custom_rarity = EXCLUDED.custom_rarity,
			disabled = EXCLUDED.disabled,
			tradeable = EXCLUDED.tradeable,
			box_obtainable = EXCLUDED.box_obtainable,
			popularity = EXCLUDED.popularity,
			updated_at = NOW()
		RETURNING item_id::text, drop_count, created_at, updated_at`,
		item.ID, item.Name, item.Platform, item.ReleaseYear, item.QualityScore, item.Rarity, item.CustomRarity,
		item.Disabled, item.Tradeable, item.BoxObtainable, item.Popularity,
	).Scan(&item.ID, &item.DropCount, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteItem, mapConstraint(err))
	}
	return nil
}

func (s *Store) UpdateItemFlags(ctx context.Context, item *domain.CatalogItem) error {
	if !validID(item.ID) {
		return domain.ErrItemNotFound
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE catalog_items
		SET rarity = $2, custom_rarity = $3, disabled = $4, tradeable = $5, box_obtainable = $6, updated_at = NOW()
		WHERE item_id = $1`,
		item.ID, item.Rarity, item.CustomRarity, item.Disabled, item.Tradeable, item.BoxObtainable)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteItem, mapConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *Store) TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+itemColumns+` FROM catalog_items
		WHERE drop_count > 0
		ORDER BY drop_count DESC, name
		LIMIT NULLIF($1::int, 0)`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return collect(rows, scanItem)
}

func (s *Store) RarityStats(ctx context.Context) ([]domain.RarityCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT rarity, COUNT(*)::int, COALESCE(SUM(drop_count), 0)::int
		FROM catalog_items
		WHERE NOT disabled
		GROUP BY rarity
		ORDER BY rarity`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryItem, err)
	}
	return collect(rows, func(row pgx.Row) (*domain.RarityCount, error) {
		var rc domain.RarityCount
		if err := row.Scan(&rc.Rarity, &rc.Count, &rc.Drops); err != nil {
			return nil, err
		}
		return &rc, nil
	})
}

// ---- Trades ----

func (s *Store) GetPendingTradeForTarget(ctx context.Context, target string) (*domain.Trade, error) {
	t, err := scanTrade(s.db.QueryRow(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE target = $1 AND status = 'pending'
		ORDER BY seq DESC LIMIT 1`, domain.NormalizeUsername(target)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return t, nil
}

func (s *Store) ListTrades(ctx context.Context, filter repository.TradeFilter) ([]domain.Trade, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE $1 = '' OR initiator = $1 OR target = $1
		ORDER BY seq DESC
		LIMIT NULLIF($2::int, 0)`, domain.NormalizeUsername(filter.Username), filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return collect(rows, scanTrade)
}

func (s *Store) TradeStats(ctx context.Context) ([]domain.TradeStat, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*)::int FROM trades GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryTrade, err)
	}
	return collect(rows, func(row pgx.Row) (*domain.TradeStat, error) {
		var ts domain.TradeStat
		if err := row.Scan(&ts.Status, &ts.Count); err != nil {
			return nil, err
		}
		return &ts, nil
	})
}

func (s *Store) ExpireTrades(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trades SET status = 'expired', resolved_at = $1
		WHERE status = 'pending' AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgWriteTrade, err)
	}
	return int(tag.RowsAffected()), nil
}

// ---- Config ----

func (s *Store) GetEconomyConfig(ctx context.Context) (*domain.EconomyConfig, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT document FROM economy_config WHERE id = $1`, economyConfigRowID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryConfig, err)
	}
	var cfg domain.EconomyConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeConfig, err)
	}
	return &cfg, nil
}

func (s *Store) SaveEconomyConfig(ctx context.Context, cfg *domain.EconomyConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteConfig, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO economy_config (id, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		economyConfigRowID, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteConfig, err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
