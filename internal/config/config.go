package config

import (
	"time"

	"github.com/spf13/viper"
)

// The service is expected to run with its settings injected as environment
// variables (DB connection, AWS/SQS wiring, device gateway address). Local
// defaults point at docker-compose services.

type Config struct {
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	SyncSQSQueueURL   string `mapstructure:"SYNC_SQS_QUEUE_URL"`
	ReportSQSQueueURL string `mapstructure:"REPORT_SQS_QUEUE_URL"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	DeviceGatewayURL  string `mapstructure:"DEVICE_GATEWAY_URL"`
	DeviceID          string `mapstructure:"DEVICE_ID"`
	Timezone          string `mapstructure:"TIMEZONE"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	SenderEmail       string `mapstructure:"SENDER_EMAIL"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1") // Default region for AWS services
	viper.SetDefault("SYNC_SQS_QUEUE_URL", "http://localstack:4566/000000000000/sync-queue")
	viper.SetDefault("REPORT_SQS_QUEUE_URL", "http://localstack:4566/000000000000/report-queue")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("DEVICE_GATEWAY_URL", "http://localhost:8081")
	viper.SetDefault("DEVICE_ID", "192.168.1.201")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("ADMIN_EMAIL", "admin@attendance-service.com")
	viper.SetDefault("SENDER_EMAIL", "reports@attendance-service.com")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// Location resolves the configured system time zone. Day truncation in the
// reconciler must use this one zone everywhere.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
