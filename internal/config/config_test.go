package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, TransportInProcess, cfg.Events.Transport)
	assert.Equal(t, 0.8, cfg.Reservation.RatePerKm)
	assert.Equal(t, 2*time.Second, cfg.Reservation.LockTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Kafka.Brokers)
}

func TestLoad_FileAndEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
logger:
  level: debug
  encoding: console
storage:
  driver: postgres
  postgres:
    host: db
    database: sleeper_test
reservation:
  rate_per_km: 1.25
  lock_timeout: 500ms
events:
  transport: kafka
  kafka:
    brokers: ["kafka-1:9092", "kafka-2:9092"]
`)
	t.Setenv("DB_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 1.25, cfg.Reservation.RatePerKm)
	assert.Equal(t, 500*time.Millisecond, cfg.Reservation.LockTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "host=db port=5432 user=postgres password=s3cret dbname=sleeper_test sslmode=disable TimeZone=UTC", cfg.Storage.Postgres.DSN())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{name: "unknown transport", env: map[string]string{"EVENTS_TRANSPORT": "nats"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "non positive rate", env: map[string]string{"RESERVATION_RATE_PER_KM": "0"}},
		{name: "redis without group", env: map[string]string{"EVENTS_TRANSPORT": "redis", "REDIS_CONSUMER_GROUP": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestPath_PrefersEnv(t *testing.T) {
	t.Setenv(configPathEnv, "/etc/sleeper/config.yml")
	assert.Equal(t, "/etc/sleeper/config.yml", Path())
}
