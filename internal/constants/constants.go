package constants

// Context keys
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	MinPage          = 1
	DefaultPageSize  = 10
	MaxPageSize      = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// Authentication
const (
	BcryptCost          = 10
	MinPasswordLength   = 6
	MaxPasswordBytes    = 72 // bcrypt input limit
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)
