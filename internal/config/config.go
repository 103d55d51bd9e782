package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	FacilityTZ     string
	CORSOrigins    []string
	AuthJWTSecret  string
	StaffJWTSecret string

	// Scheduling
	SlotMinutes         int
	WorkingHoursStart   string
	WorkingHoursEnd     string
	WorkingDays         []string
	FacilityHolidays    []string
	SearchHorizonDays   int
	ScorerToleranceMins int
	StoreTimeout        time.Duration

	// Events / notifications
	EventsQueueURL      string
	OutboxPollInterval  time.Duration
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	SESFromEmail        string
	SESFromName         string
	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridFromName    string

	// Analytics cache
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	AnalyticsTTL  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		FacilityTZ:     getEnv("FACILITY_TZ", "UTC"),
		CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		AuthJWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
		StaffJWTSecret: getEnv("STAFF_JWT_SECRET", ""),

		SlotMinutes:         getEnvAsInt("SLOT_MINUTES", 30),
		WorkingHoursStart:   getEnv("WORKING_HOURS_START", "09:00"),
		WorkingHoursEnd:     getEnv("WORKING_HOURS_END", "17:00"),
		WorkingDays:         getEnvAsList("WORKING_DAYS", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}),
		FacilityHolidays:    getEnvAsList("FACILITY_HOLIDAYS", nil),
		SearchHorizonDays:   getEnvAsInt("SEARCH_HORIZON_DAYS", 7),
		ScorerToleranceMins: getEnvAsInt("SCORER_TOLERANCE_MINUTES", 120),
		StoreTimeout:        getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),

		EventsQueueURL:      getEnv("EVENTS_QUEUE_URL", ""),
		OutboxPollInterval:  getEnvAsDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		SESFromEmail:        getEnv("SES_FROM_EMAIL", ""),
		SESFromName:         getEnv("SES_FROM_NAME", "Front Desk"),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:   getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:    getEnv("SENDGRID_FROM_NAME", "Front Desk"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		AnalyticsTTL:  getEnvAsDuration("ANALYTICS_CACHE_TTL", 5*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
