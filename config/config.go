package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Document store. DatabaseURL has no default: when it is missing the
	// connection attempt fails and the server runs without a store.
	DatabaseURL   string
	StoreDriver   string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	MigrationsDir string

	// Redis (optional; backs the /register rate limit)
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RegisterRateLimit int
	RateLimitWindow   time.Duration
	// Skip the limiter for loopback/private clients
	RateLimitAllowPrivate bool

	// Proxies allowed to set forwarded client IP headers (comma-separated
	// IPs or CIDRs). Empty means forwarded headers are ignored.
	TrustedProxies string

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Elasticsearch (optional; empty addrs disables indexing)
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// RabbitMQ (optional; empty URL disables welcome emails)
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Email sending toggle
	MailSendEnabled bool

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "user-registration"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "3000"),
		GinMode: getenv("GIN_MODE", "release"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 0)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getint("REDIS_DB", 0),
		RegisterRateLimit: getint("REGISTER_RATE_LIMIT", 20),
		RateLimitWindow:   getdur("RATE_LIMIT_WINDOW", time.Minute),

		RateLimitAllowPrivate: getbool("RATE_LIMIT_ALLOW_PRIVATE", false),

		TrustedProxies: getenv("TRUSTED_PROXIES", ""),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// TrustedProxyList returns the trusted proxy IPs/CIDRs as a slice
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
