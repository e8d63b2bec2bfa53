package settings

// Schema file names inside the embedded schema FS
const (
	SchemaEconomyConfig = "schemas/economy_config.schema.json"
)

// Tolerance for percentage tables that must total 100
const PercentEpsilon = 0.01

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgConfigDefaulted   = "No stored economy config, using defaults"
	LogMsgConfigUpdated     = "Economy config updated"
	LogMsgRarityOddsUpdated = "Rarity odds updated"
	LogMsgConfigFileLoaded  = "Economy config loaded from file"
	LogMsgConfigRejected    = "Economy config rejected"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgOddsSum         = "rarity odds must total 100, got %.2f"
	ErrMsgOddsUnknownTier = "rarity odds reference unknown tier %q"
	ErrMsgDailySum        = "daily chances must total 100, got %.2f"
	ErrMsgUnknownTier     = "%s references unknown tier %q"
	ErrMsgUltraInTiers    = "ultra tier %q must not be a box tier"
	ErrMsgLevelsOrder     = "level table must increase in level and xp"
	ErrMsgLevelsStart     = "level table must start at 0 xp"
	ErrMsgReadConfigFile  = "failed to read config file"
	ErrMsgParseConfigFile = "failed to parse config file"
)
