package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// ErrInvariantViolation represents a broken matching or pricing contract,
	// e.g. a non-positive order quantity or a price outside the allowed bounds.
	ErrInvariantViolation ErrorCode = "invariant_violation"
	// ErrUnknownSymbol represents an order or query referencing a symbol
	// that is not part of the instrument universe.
	ErrUnknownSymbol ErrorCode = "unknown_symbol"
	// ErrInsufficientCash represents a settlement attempt that would take an
	// agent's cash balance negative.
	ErrInsufficientCash ErrorCode = "insufficient_cash"
	// ErrInsufficientHoldings represents a settlement attempt selling more
	// shares than the agent holds.
	ErrInsufficientHoldings ErrorCode = "insufficient_holdings"
	// ErrUnknownAgent represents a settlement referencing an agent that has
	// no account in the ledger.
	ErrUnknownAgent ErrorCode = "unknown_agent"
	// ErrTickInProgress represents an attempt to start a tick while the
	// previous one is still being assembled.
	ErrTickInProgress ErrorCode = "tick_in_progress"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
)
