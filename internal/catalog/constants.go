package catalog

import "time"

// Candidate cache sizing. Entries are dropped on every catalog mutation.
const (
	CandidateCacheSize = 64
	CandidateCacheTTL  = 30 * time.Second
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgItemUpserted       = "Catalog item upserted"
	LogMsgCustomRaritySet    = "Custom rarity pinned"
	LogMsgCustomRarityClear  = "Custom rarity cleared"
	LogMsgItemDisabledSet    = "Catalog item availability changed"
	LogMsgSeedLoaded         = "Catalog seed file loaded"
	LogMsgCandidateCacheMiss = "Candidate cache miss"
	LogMsgCandidatesStale    = "Catalog changed during candidate read, not caching"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgReadSeedFile  = "failed to read catalog seed file"
	ErrMsgParseSeedFile = "failed to parse catalog seed file"
	ErrMsgEmptyName     = "item name is required"
)
