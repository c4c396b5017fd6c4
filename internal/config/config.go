package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Environment string
	ServerPort  string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret string

	MailAPIURL   string
	MailAPIKey   string
	MailFrom     string
	MailFromName string
	// ResetBaseURL is the public URL of the recovery form; the token is
	// appended as a query parameter in the outbound email.
	ResetBaseURL string

	ResetTokenTTL time.Duration
	// ClearExpiredResetTokens controls what happens when a consumption
	// attempt finds the token past its expiry: false leaves the stored token
	// in place until the next issuance overwrites it, true clears it on the
	// spot.
	ClearExpiredResetTokens bool

	BootstrapAdminPassword string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/biblioteca?charset=utf8mb4&parseTime=True&loc=Local"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		MailAPIURL:   getEnv("MAIL_API_URL", "https://send.api.mailtrap.io/api/send"),
		MailAPIKey:   os.Getenv("MAIL_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@biblioteca.local"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Biblioteca"),
		ResetBaseURL: getEnv("RESET_BASE_URL", "http://localhost:8080/auth/recover"),

		ResetTokenTTL:           getEnvDuration("RESET_TOKEN_TTL", 10*time.Minute),
		ClearExpiredResetTokens: getEnvBool("CLEAR_EXPIRED_RESET_TOKENS", false),

		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
