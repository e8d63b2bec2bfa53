package postgres

// Postgres error codes the store maps onto domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names from the economy migration
const (
	constraintCustomRarity  = "catalog_items_custom_rarity_key"
	constraintPendingByInit = "trades_pending_initiator_key"
	constraintPendingByTgt  = "trades_pending_target_key"
	constraintInventoryAcct = "inventory_account_id_fkey"
	constraintInventoryItem = "inventory_item_id_fkey"
	constraintCommandName   = "chat_commands_name_key"
	economyConfigRowID      = 1
	accountColumns          = `account_id::text, username, display_name, coins, boxes, xp, level, total_coins_earned, total_boxes_opened, last_daily_at, last_message_at, last_passive_at, created_at, updated_at`
	itemColumns             = `item_id::text, name, platform, release_year, quality_score, rarity, custom_rarity, disabled, tradeable, box_obtainable, popularity, drop_count, created_at, updated_at`
	commandColumns          = `command_id::text, name, description, response, aliases, enabled, cooldown_seconds, level, usage_count, created_at, updated_at`
	tradeColumns            = `trade_id::text, initiator, target, initiator_item_id::text, initiator_item_name, target_item_id::text, target_item_name, fee, status, created_at, expires_at, resolved_at`
)

const (
	ErrMsgBeginTx        = "failed to begin transaction"
	ErrMsgQueryAccount   = "failed to query account"
	ErrMsgInsertAccount  = "failed to insert account"
	ErrMsgQueryInventory = "failed to query inventory"
	ErrMsgUpdateAccount  = "failed to update account"
	ErrMsgQueryItem      = "failed to query catalog item"
	ErrMsgWriteItem      = "failed to write catalog item"
	ErrMsgWriteInventory = "failed to write inventory"
	ErrMsgQueryTrade     = "failed to query trade"
	ErrMsgWriteTrade     = "failed to write trade"
	ErrMsgQueryConfig    = "failed to query economy config"
	ErrMsgWriteConfig    = "failed to write economy config"
	ErrMsgDecodeConfig   = "failed to decode economy config"
	ErrMsgQueryCommand   = "failed to query chat command"
	ErrMsgWriteCommand   = "failed to write chat command"
	ErrMsgScanRow        = "failed to scan row"
)
