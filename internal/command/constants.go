package command

// Limits on operator-defined commands
const (
	MaxAliases        = 10
	MaxResponseLength = 450
	MaxCooldown       = 3600
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCommandCreated = "Chat command created"
	LogMsgCommandUpdated = "Chat command updated"
	LogMsgCommandDeleted = "Chat command deleted"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgBadName       = "command names use 1-32 letters, digits or underscores: %q"
	ErrMsgReservedName  = "%q is a built-in command"
	ErrMsgEmptyResponse = "a response is required"
	ErrMsgLongResponse  = "response is longer than %d characters"
	ErrMsgTooManyAlias  = "at most %d aliases"
	ErrMsgBadCooldown   = "cooldown must be between 0 and %d seconds"
	ErrMsgBadLevel      = "unknown level %q"
)
