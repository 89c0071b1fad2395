package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "doctorsPortal"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "5500"
	DefaultLogLevel = "info"

	DefaultTokenTTL     = 24 * time.Hour
	DefaultRoleCacheTTL = 60 * time.Second

	DefaultEmailSenderName     = "Doctors Portal"
	DefaultNotificationTimeout = 10 * time.Second

	DefaultPaymentCurrency = "usd"

	DefaultKafkaBookingsTopic   = "bookings.events"
	DefaultKafkaBookingsDLQ     = "bookings.events.dlq"
	DefaultKafkaNotifierGroupID = "booking-notifier"

	DefaultCORSOrigins = "*"

	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

const (
	RoleAdmin = "admin"
)

// PortalService is the service name of the HTTP API. Token and role cache
// settings are only validated for it.
const PortalService = "portal"

const (
	DefaultPaginationLimit = 100
	MinPaginationLimit     = 10
)
