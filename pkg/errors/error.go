package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// UnknownMarket represents an error when a command references a market the engine does not serve.
	UnknownMarket ErrorCode = "unknown_market"
	// OrderNotFound represents an error when a referenced order is not resting on the book.
	OrderNotFound ErrorCode = "order_not_found"
	// InsufficientBalance represents an error when a user's available balance cannot cover a lock.
	InsufficientBalance ErrorCode = "insufficient_balance"
	// MalformedCommand represents an error when an ingress message cannot be parsed or validated.
	MalformedCommand ErrorCode = "malformed_command"
	// SnapshotUnavailable represents an error when a snapshot is missing or cannot be decoded.
	SnapshotUnavailable ErrorCode = "snapshot_unavailable"

	// OrderExists represents an error when an order ID is already resting on the book.
	OrderExists ErrorCode = "order_exists"
	// InvalidOrder represents an error when an order has a non-positive price or quantity.
	InvalidOrder ErrorCode = "invalid_order"

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
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
	// RedisLPushError represents an error when pushing entries onto a list in Redis.
	RedisLPushError ErrorCode = "redis_lpush_error"
	// RedisBRPopError represents an error when popping entries from a list in Redis.
	RedisBRPopError ErrorCode = "redis_brpop_error"

	// KafkaPublishError represents an error when writing messages to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)

// Is reports whether err carries the given engine error code.
func Is(err error, code ErrorCode) bool {
	return ErrorCodeEquals(err, string(code))
}
