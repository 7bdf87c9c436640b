package config

import (
	"os"
	"strconv"
	"time"

	"github.com/11VZ/AuroraBot/models"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Platform configuration
	PlatformProvider   string // "pubnub" or "log"
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUUID         string

	// Channel targets
	QueueChannel    string
	AnnounceChannel string
	ControlChannel  string

	// Role identifiers
	TesterRoleID      string
	WaitlistRoleID    string
	QueueAccessRoleID string
	TierRoles         map[string]string

	// Queue configuration
	QueueMax         int
	TestIntervalDays int

	// Verification webhook
	VerifySecretHash string

	// Rate limiting
	JoinRateLimit  int
	JoinRateWindow time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Platform
		PlatformProvider:   getEnv("PLATFORM_PROVIDER", "log"),
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUUID:         getEnv("PUBNUB_UUID", "aurora-bot"),

		// Channels
		QueueChannel:    getEnv("QUEUE_CHANNEL", "aurora-queue"),
		AnnounceChannel: getEnv("ANNOUNCE_CHANNEL", "aurora-results"),
		ControlChannel:  getEnv("CONTROL_CHANNEL", "aurora-control"),

		// Roles
		TesterRoleID:      getEnv("TESTER_ROLE_ID", ""),
		WaitlistRoleID:    getEnv("WAITLIST_ROLE_ID", ""),
		QueueAccessRoleID: getEnv("QUEUE_ACCESS_ROLE_ID", ""),
		TierRoles:         loadTierRoles(),

		// Queue
		QueueMax:         getEnvAsInt("QUEUE_MAX", 20),
		TestIntervalDays: getEnvAsInt("TEST_INTERVAL_DAYS", 3),

		// Verification webhook
		VerifySecretHash: getEnv("VERIFY_WEBHOOK_SECRET_HASH", ""),

		// Rate limiting
		JoinRateLimit:  getEnvAsInt("JOIN_RATE_LIMIT", 10),
		JoinRateWindow: getEnvAsDuration("JOIN_RATE_WINDOW", "1m"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

// loadTierRoles reads TIER_ROLE_<label> for every tier label. Labels with
// no configured role are left out; assignment treats them as unmapped.
func loadTierRoles() map[string]string {
	roles := make(map[string]string, len(models.Tiers))
	for _, tier := range models.Tiers {
		if roleID := os.Getenv("TIER_ROLE_" + tier); roleID != "" {
			roles[tier] = roleID
		}
	}
	return roles
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
