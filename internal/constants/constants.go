package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyTaskID is the gin context key holding the parsed :id path parameter.
	ContextKeyTaskID = "task_id"
)

// Password policy
const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const BearerScheme = "Bearer"
