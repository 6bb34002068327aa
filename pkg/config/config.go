package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int
	BaseURL  string

	PostgresDSN string
	RedisURL    string

	SessionTTL time.Duration

	PaystackSecretKey string
	PaystackBaseURL   string
	PaymentTimeout    time.Duration

	SMTPAddr string
	SMTPFrom string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=clinic password=clinic dbname=clinic port=5432 sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", "sk_test_xxx"),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaymentTimeout:    getEnvDuration("PAYMENT_TIMEOUT", 10*time.Second),

		SMTPAddr: getEnv("SMTP_ADDR", "localhost:25"),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@clinicshop.local"),
	}
}

// Dev reports whether the app runs in the development environment. The
// payer-email match on settlement is relaxed in dev because test gateway
// transactions carry dummy customer data.
func (c Config) Dev() bool {
	return c.AppEnv == "dev"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
