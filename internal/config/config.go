package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Moderators granted by configuration, on top of the users.role column
	ModeratorEmails  []string
	ModeratorUserIDs []string

	// Redis (optional, stats cache)
	RedisURL      string
	StatsCacheTTL time.Duration

	// Observability
	SentryDSN    string
	AppEnv       string
	LogRetention time.Duration

	// Server
	Port            string
	CORSOrigins     string
	RateLimit       int
	AuthRateLimit   int
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "buzzly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		ModeratorEmails:  parseCSV(getEnv("MODERATOR_EMAILS", "")),
		ModeratorUserIDs: parseCSV(getEnv("MODERATOR_USER_IDS", "")),

		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: parseDuration(getEnv("STATS_CACHE_TTL", "30s"), 30*time.Second),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),

		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimit:       parseInt(getEnv("RATE_LIMIT_PER_MIN", "60"), 60),
		AuthRateLimit:   parseInt(getEnv("AUTH_RATE_LIMIT_PER_MIN", "10"), 10),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errMissing("JWT_SECRET")
	}
	if c.DBPassword == "" {
		return errMissing("DB_PASSWORD")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// IsModeratorByConfig reports whether the user id or email is listed in the
// moderator allow-lists.
func (c *Config) IsModeratorByConfig(userID, email string) bool {
	if userID != "" && contains(c.ModeratorUserIDs, strings.ToLower(userID)) {
		return true
	}
	if email != "" && contains(c.ModeratorEmails, strings.ToLower(email)) {
		return true
	}
	return false
}

func errMissing(key string) error {
	return fmt.Errorf("%s environment variable is required", key)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
