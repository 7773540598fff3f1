package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Every service reads its settings from the environment. A local .env file, when
// present, is loaded first and never overrides variables already set.

type Config struct {
	DBHost               string `mapstructure:"DB_HOST"`
	DBPort               string `mapstructure:"DB_PORT"`
	DBUser               string `mapstructure:"DB_USER"`
	DBPassword           string `mapstructure:"DB_PASSWORD"`
	DBName               string `mapstructure:"DB_NAME"`
	ServerPort           string `mapstructure:"SERVER_PORT"`
	IsLocalDev           bool   `mapstructure:"IS_LOCAL_DEV"`
	AWSRegion            string `mapstructure:"AWS_REGION"`
	AWSEndpoint          string `mapstructure:"AWS_ENDPOINT"`
	ReminderSQSQueueURL  string `mapstructure:"REMINDER_SQS_QUEUE_URL"`
	EmailSender          string `mapstructure:"EMAIL_SENDER"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTIssuer            string `mapstructure:"JWT_ISSUER"`
	ExportTempDir        string `mapstructure:"EXPORT_TEMP_DIR"`
	ReminderConcurrency  int    `mapstructure:"REMINDER_CONCURRENCY"`
	ReminderSchedule     string `mapstructure:"REMINDER_SCHEDULE"`
	ReminderLookbackDays int    `mapstructure:"REMINDER_LOOKBACK_DAYS"`
	// ReminderSchedulerEnabled must be true on exactly one API instance.
	ReminderSchedulerEnabled bool   `mapstructure:"REMINDER_SCHEDULER_ENABLED"`
	OTelEndpoint             string `mapstructure:"OTEL_EXPORTER_ENDPOINT"`
}

// LoadConfig reads configuration from an optional .env file and environment variables.
func LoadConfig() (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, err
	}

	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "timesheet_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("IS_LOCAL_DEV", false)
	viper.SetDefault("AWS_REGION", "us-east-1") // Default region for AWS services
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("REMINDER_SQS_QUEUE_URL", "http://localstack:4566/000000000000/reminder-queue")
	viper.SetDefault("EMAIL_SENDER", "reminders@timesheet-reports.com")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("EXPORT_TEMP_DIR", "")
	viper.SetDefault("REMINDER_CONCURRENCY", 5)
	viper.SetDefault("REMINDER_SCHEDULE", "0 0 9 * * MON-FRI") // 09:00 on weekdays, seconds field first
	viper.SetDefault("REMINDER_LOOKBACK_DAYS", 7)
	viper.SetDefault("REMINDER_SCHEDULER_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_ENDPOINT", "")

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
