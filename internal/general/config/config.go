package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string // YAML key: "database"
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	SMTP struct {
		Host string
		Port int
		From string
	}
	Services struct {
		TripServicePort         int
		PaymentServicePort      int
		NotificationServicePort int
	}
}

// LoadFromFile loads config from a YAML file to a Config struct, applies defaults, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := parseYAML(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// RabbitMQ
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	// SMTP (the default mailer only logs, so these are informational)
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "localhost"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 1025
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = "no-reply@taxi-trips.local"
	}

	// Services
	if cfg.Services.TripServicePort == 0 {
		cfg.Services.TripServicePort = 3000
	}
	if cfg.Services.PaymentServicePort == 0 {
		cfg.Services.PaymentServicePort = 3001
	}
	if cfg.Services.NotificationServicePort == 0 {
		cfg.Services.NotificationServicePort = 3002
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	// SMTP
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		problems = append(problems, "smtp.port must be in 1..65535")
	}

	// Services
	if c.Services.TripServicePort <= 0 || c.Services.TripServicePort > 65535 {
		problems = append(problems, "services.trip_service must be in 1..65535")
	}
	if c.Services.PaymentServicePort <= 0 || c.Services.PaymentServicePort > 65535 {
		problems = append(problems, "services.payment_service must be in 1..65535")
	}
	if c.Services.NotificationServicePort <= 0 || c.Services.NotificationServicePort > 65535 {
		problems = append(problems, "services.notification_service must be in 1..65535")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
