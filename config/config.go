package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration loaded from environment variables.
// Defaults target local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis (rate limiting, bot dialogue state)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Google Cloud Storage for post images
	GCSBucket              string
	GCSCredentialsJSONPath string // if empty, Application Default Credentials are used

	// Access tokens
	JWTSecret   string
	JWTTTL      time.Duration
	JWTIssuer   string
	TokenHeader string
	BcryptCost  int

	CORSAllowedOrigins string // comma-separated

	MigrationsDir string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ domain events
	RabbitMQURL         string
	RabbitMQEventsQueue string

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESPostsIndex       string

	// Links rendered in emails
	CompanyName string
	SupportURL  string
	LoginURL    string

	// Telegram bot
	TelegramBotToken string
	BotAPIBaseURL    string
	BotStateTTL      time.Duration
	BotDebug         bool

	// Seeding
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminUsername string

	MailSendEnabled     bool
	DebugMetricsEnabled bool
	HTTPLogEnabled      bool
	RateLimitEnabled    bool
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
			logrus.Warnf("invalid boolean for %s: %v, using default %v", key, err, def)
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
			logrus.Warnf("invalid int for %s: %v, using default %d", key, err, def)
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
			logrus.Warnf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppName: getenv("APP_NAME", "blog-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "blog"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		JWTSecret:   getenv("JWT_SECRET", "devsecret"),
		JWTTTL:      getdur("JWT_TTL", 24*time.Hour),
		JWTIssuer:   getenv("JWT_ISSUER", "blog-api"),
		TokenHeader: getenv("TOKEN_HEADER", "X-Token"),
		BcryptCost:  getint("BCRYPT_COST", 10),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQEventsQueue: getenv("RABBITMQ_EVENTS_QUEUE", "blog.user_events"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESPostsIndex:       getenv("ES_POSTS_INDEX", "posts"),

		CompanyName: getenv("COMPANY_NAME", "Blog"),
		SupportURL:  getenv("SUPPORT_URL", ""),
		LoginURL:    getenv("LOGIN_URL", "http://localhost:8080"),

		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		BotAPIBaseURL:    getenv("BOT_API_BASE_URL", "http://localhost:8080/api"),
		BotStateTTL:      getdur("BOT_STATE_TTL", 24*time.Hour),
		BotDebug:         getbool("BOT_DEBUG", false),

		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", "AdMin!pass"),
		SeedAdminUsername: getenv("SEED_ADMIN_USERNAME", "admin"),

		MailSendEnabled:     getbool("MAIL_SEND_ENABLED", true),
		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", false),
		RateLimitEnabled:    getbool("RATE_LIMIT_ENABLED", true),
	}
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
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

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string { return splitList(c.CORSAllowedOrigins) }

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string { return splitList(c.ElasticsearchAddrs) }
