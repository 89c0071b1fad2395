package config

import (
	"fmt"
	"net/netip"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"doctorsportal/pkg/client"
	"doctorsportal/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoTransactions bool

	Port string

	AccessTokenSecret string
	TokenTTL          time.Duration

	RedisURL     string
	RoleCacheTTL time.Duration

	EmailSenderKey      string
	EmailSender         string
	EmailSenderName     string
	NotificationTimeout time.Duration

	StripeSecretKey string
	PaymentCurrency string

	KafkaBrokers         string
	KafkaBookingsTopic   string
	KafkaBookingsDLQ     string
	KafkaNotifierGroupID string

	EnforceSlotExclusivity bool

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []netip.Prefix
	invalidProxies []string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A missing .env is fine, the process environment wins either way.
	_ = godotenv.Load()

	trustedProxies, invalidProxies := getEnvPrefixes(EnvTrustedProxies)

	cfg := &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoTransactions: getEnvBool(EnvMongoTransactions, false),

		Port: getEnvStr(EnvPort, DefaultPort),

		AccessTokenSecret: getEnvStr(EnvAccessTokenSecret, ""),
		TokenTTL:          getEnvDuration(EnvTokenTTL, DefaultTokenTTL),

		RedisURL:     getEnvStr(EnvRedisURL, ""),
		RoleCacheTTL: getEnvDuration(EnvRoleCacheTTL, DefaultRoleCacheTTL),

		EmailSenderKey:      getEnvStr(EnvEmailSenderKey, ""),
		EmailSender:         getEnvStr(EnvEmailSender, ""),
		EmailSenderName:     getEnvStr(EnvEmailSenderName, DefaultEmailSenderName),
		NotificationTimeout: getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),

		StripeSecretKey: getEnvStr(EnvStripeSecretKey, ""),
		PaymentCurrency: strings.ToLower(getEnvStr(EnvPaymentCurrency, DefaultPaymentCurrency)),

		KafkaBrokers:         getEnvStr(EnvKafkaBrokers, ""),
		KafkaBookingsTopic:   getEnvStr(EnvKafkaBookingsTopic, DefaultKafkaBookingsTopic),
		KafkaBookingsDLQ:     getEnvStr(EnvKafkaBookingsDLQ, DefaultKafkaBookingsDLQ),
		KafkaNotifierGroupID: getEnvStr(EnvKafkaNotifierGroupID, DefaultKafkaNotifierGroupID),

		EnforceSlotExclusivity: getEnvBool(EnvEnforceSlotExclusivity, false),

		CORSOrigins: getEnvList(EnvCORSOrigins, DefaultCORSOrigins),

		RateLimitRPS:   getEnvFloat(EnvRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst: getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),
		TrustedProxies: trustedProxies,
		invalidProxies: invalidProxies,

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the role cache backend. It is a no-op without REDIS_URL.
func (cfg *Config) SetRedis() {
	if cfg.RedisURL == "" {
		cfg.Log.Info("REDIS_URL not set, role cache disabled")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.MongoConnTimeout)
}

func (cfg *Config) KafkaEnabled() bool {
	return strings.TrimSpace(cfg.KafkaBrokers) != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	// Jobs and the notifier never issue or check tokens.
	if cfg.ServiceName == PortalService {
		if cfg.AccessTokenSecret == "" {
			errors = append(errors, "AccessTokenSecret cannot be empty")
		}
		if cfg.TokenTTL <= 0 {
			errors = append(errors, fmt.Sprintf("TokenTTL must be positive, got: %s", cfg.TokenTTL))
		}
		if cfg.RedisURL != "" && !regexp.MustCompile(`^rediss?://`).MatchString(cfg.RedisURL) {
			errors = append(errors, "RedisURL must start with 'redis://' or 'rediss://'")
		}
		// A zero TTL would make Redis keep cached roles forever.
		if cfg.RedisURL != "" && cfg.RoleCacheTTL <= 0 {
			errors = append(errors, fmt.Sprintf("RoleCacheTTL must be positive when RedisURL is set, got: %s", cfg.RoleCacheTTL))
		}
	}

	if len(cfg.PaymentCurrency) != 3 {
		errors = append(errors, fmt.Sprintf("PaymentCurrency must be a 3-letter ISO code, got: %s", cfg.PaymentCurrency))
	}
	if cfg.NotificationTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be positive, got: %s", cfg.NotificationTimeout))
	}

	if cfg.KafkaEnabled() && cfg.KafkaBookingsTopic == "" {
		errors = append(errors, "KafkaBookingsTopic cannot be empty when KAFKA_BROKERS is set")
	}

	if cfg.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRPS must be positive, got: %g", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	for _, proxy := range cfg.invalidProxies {
		errors = append(errors, fmt.Sprintf("TrustedProxies entry is not an IP or CIDR: %s", proxy))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_transactions", cfg.MongoTransactions,
		"port", cfg.Port,
		"access_token_secret_set", cfg.AccessTokenSecret != "",
		"token_ttl", cfg.TokenTTL,
		"redis_enabled", cfg.RedisURL != "",
		"role_cache_ttl", cfg.RoleCacheTTL,
		"email_sender_key_set", cfg.EmailSenderKey != "",
		"email_sender", cfg.EmailSender,
		"notification_timeout", cfg.NotificationTimeout,
		"stripe_key_set", cfg.StripeSecretKey != "",
		"payment_currency", cfg.PaymentCurrency,
		"kafka_enabled", cfg.KafkaEnabled(),
		"kafka_bookings_topic", cfg.KafkaBookingsTopic,
		"enforce_slot_exclusivity", cfg.EnforceSlotExclusivity,
		"cors_origins", cfg.CORSOrigins,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"trusted_proxies", len(cfg.TrustedProxies),
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnvStr(key, fallback)
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvPrefixes parses a comma separated list of IPs and CIDRs. A bare IP
// becomes a single-address prefix. Unparsable entries are returned separately.
func getEnvPrefixes(key string) ([]netip.Prefix, []string) {
	var prefixes []netip.Prefix
	var invalid []string
	for _, item := range getEnvList(key, "") {
		if prefix, err := netip.ParsePrefix(item); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(item); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		invalid = append(invalid, item)
	}
	return prefixes, invalid
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = MinPaginationLimit
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
