package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// Calendar window and snapshot freshness
	WindowDays     int
	SnapshotMaxAge time.Duration
	SyncInterval   time.Duration

	// Daily challenge selection
	ChallengeExclusionDays int
	ChallengeMaxDifficulty string

	// Contest reminders
	ReminderOffset       time.Duration
	ReminderScanInterval time.Duration

	// Platform credentials
	GitHubToken string

	// Notification delivery (SES); empty from-address disables sending
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is folded in when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./codestreak.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		WindowDays:     getEnvInt("CALENDAR_WINDOW_DAYS", 371),
		SnapshotMaxAge: getEnvDuration("SNAPSHOT_MAX_AGE", 6*time.Hour),
		SyncInterval:   getEnvDuration("SYNC_INTERVAL", time.Hour),

		ChallengeExclusionDays: getEnvInt("CHALLENGE_EXCLUSION_DAYS", 30),
		ChallengeMaxDifficulty: getEnv("CHALLENGE_MAX_DIFFICULTY", "HARD"),

		ReminderOffset:       getEnvDuration("REMINDER_OFFSET", 16*time.Hour),
		ReminderScanInterval: getEnvDuration("REMINDER_SCAN_INTERVAL", time.Minute),

		GitHubToken: getEnv("GITHUB_TOKEN", ""),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "CodeStreak"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
