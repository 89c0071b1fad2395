package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoTransactions = "MONGO_TRANSACTIONS"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAccessTokenSecret = "ACCESS_TOKEN_SECRET"
	EnvTokenTTL          = "TOKEN_TTL"

	EnvRedisURL     = "REDIS_URL"
	EnvRoleCacheTTL = "ROLE_CACHE_TTL"

	EnvEmailSenderKey      = "EMAIL_SENDER_KEY"
	EnvEmailSender         = "EMAIL_SENDER"
	EnvEmailSenderName     = "EMAIL_SENDER_NAME"
	EnvNotificationTimeout = "NOTIFICATION_TIMEOUT"

	EnvStripeSecretKey = "STRIPE_SECRET_KEY"
	EnvPaymentCurrency = "PAYMENT_CURRENCY"

	EnvKafkaBrokers         = "KAFKA_BROKERS"
	EnvKafkaBookingsTopic   = "KAFKA_BOOKINGS_TOPIC"
	EnvKafkaBookingsDLQ     = "KAFKA_BOOKINGS_DLQ_TOPIC"
	EnvKafkaNotifierGroupID = "KAFKA_NOTIFIER_GROUP_ID"

	EnvEnforceSlotExclusivity = "ENFORCE_SLOT_EXCLUSIVITY"

	EnvCORSOrigins = "CORS_ORIGINS"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"
	EnvTrustedProxies = "TRUSTED_PROXIES"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
