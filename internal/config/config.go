package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the full application configuration
type Config struct {
	Port         int
	LogLevel     string
	Env          string
	MediaBaseURL string
	AdminAPIKey  string
	DB           DBConfig
	Kafka        KafkaConfig
	SMS          SMSConfig
	JWT          JWTConfig
}

// DBConfig holds the database configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the Kafka configuration for order event publication
type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

// SMSConfig holds the SMS gateway configuration for OTP delivery
type SMSConfig struct {
	GatewayURL string
	APIKey     string
	SenderID   string
	Timeout    time.Duration
}

// JWTConfig holds the bearer token configuration
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// getEnv retrieves the value of an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

// Load reads the configuration from environment variables and returns a Config struct.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))

	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))

	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	smsTimeout, err := time.ParseDuration(getEnv("SMS_TIMEOUT", "5s"))

	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEOUT: %w", err)
	}

	tokenExpiry, err := time.ParseDuration(getEnv("JWT_TOKEN_EXPIRY", "72h"))

	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_EXPIRY: %w", err)
	}

	return &Config{
		Port:         port,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Env:          getEnv("APP_ENV", "development"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:8080"),
		AdminAPIKey:  getEnv("ADMIN_API_KEY", ""),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "pharmacy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "pharmacy.orders"),
		},
		SMS: SMSConfig{
			GatewayURL: getEnv("SMS_GATEWAY_URL", "http://localhost:9090"),
			APIKey:     getEnv("SMS_API_KEY", ""),
			SenderID:   getEnv("SMS_SENDER_ID", "PHARMACY"),
			Timeout:    smsTimeout,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			TokenExpiry: tokenExpiry,
		},
	}, nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
