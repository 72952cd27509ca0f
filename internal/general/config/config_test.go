package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 5433
  user: taxi
  password: "s3cret"
  database: taxi_trips

rabbitmq:
  host: mq.internal
  port: 5673
  user: guest
  password: guest

smtp:
  from: trips@example.com

services:
  trip_service: 8080
  payment_service: 8081
  notification_service: 8082
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.Database.Password != "s3cret" {
		t.Fatalf("quoted password not unquoted: %q", cfg.Database.Password)
	}
	if cfg.Database.Name != "taxi_trips" {
		t.Fatalf("database name = %q", cfg.Database.Name)
	}
	if cfg.RabbitMQ.Host != "mq.internal" || cfg.RabbitMQ.Port != 5673 {
		t.Fatalf("rabbitmq = %+v", cfg.RabbitMQ)
	}
	if cfg.Services.TripServicePort != 8080 || cfg.Services.PaymentServicePort != 8081 || cfg.Services.NotificationServicePort != 8082 {
		t.Fatalf("services = %+v", cfg.Services)
	}

	// smtp host and port were omitted, so defaults apply
	if cfg.SMTP.Host != "localhost" || cfg.SMTP.Port != 1025 {
		t.Fatalf("smtp defaults = %+v", cfg.SMTP)
	}
	if cfg.SMTP.From != "trips@example.com" {
		t.Fatalf("smtp from = %q", cfg.SMTP.From)
	}
}

func TestLoadFromFileAppliesServiceDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  user: taxi
  password: taxi
  database: taxi_trips

rabbitmq:
  user: guest
  password: guest
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Services.TripServicePort != 3000 || cfg.Services.PaymentServicePort != 3001 || cfg.Services.NotificationServicePort != 3002 {
		t.Fatalf("default service ports = %+v", cfg.Services)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Fatalf("default database = %+v", cfg.Database)
	}
}

func TestLoadFromFileValidation(t *testing.T) {
	path := writeConfig(t, `
database:
  user: taxi
  database: taxi_trips

rabbitmq:
  user: guest
  password: guest
`)

	_, err := LoadFromFile(path)
	if err == nil {
		t.Fatal("expected validation error for missing database password")
	}
	if !strings.Contains(err.Error(), "database.password") {
		t.Fatalf("err = %v, want mention of database.password", err)
	}
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
database:
  user: taxi
  password: taxi
  database: taxi_trips
  flavor: espresso

rabbitmq:
  user: guest
  password: guest
`)

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestLoadFromFileMissingFile(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
