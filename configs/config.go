package config

import (
	"os"
	"strconv"
)

type Razorpay struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type Config struct {
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	SecretKey          string
	CookieName         string
	CronSecret         string
	CronTrustHeader    string
	QueueWorkerURL     string
	ServiceRoleKey     string
	QueueBatchSize     int
	QueueMaxAttempts   int
	RateLimitPerMinute int
	Razorpay           Razorpay
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:          getEnv("SECRET_KEY", ""),
		CookieName:         getEnv("COOKIE_NAME", "somema_session"),
		CronSecret:         getEnv("CRON_SECRET", ""),
		CronTrustHeader:    getEnv("CRON_TRUST_HEADER", ""),
		QueueWorkerURL:     getEnv("QUEUE_WORKER_URL", "http://localhost:3000/internal/queue/process"),
		ServiceRoleKey:     getEnv("SERVICE_ROLE_KEY", ""),
		QueueBatchSize:     getEnvInt("QUEUE_BATCH_SIZE", 20),
		QueueMaxAttempts:   getEnvInt("QUEUE_MAX_ATTEMPTS", 5),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		Razorpay: Razorpay{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
