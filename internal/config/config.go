package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	configPathEnv     = "CONFIG_PATH"
	defaultConfigPath = "config.yml"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	TransportInProcess = "inprocess"
	TransportChannels  = "channels"
	TransportKafka     = "kafka"
	TransportRedis     = "redis"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"      validate:"required"`
	Logger      LoggerConfig      `yaml:"logger"      validate:"required"`
	Storage     StorageConfig     `yaml:"storage"     validate:"required"`
	Reservation ReservationConfig `yaml:"reservation" validate:"required"`
	Events      EventsConfig      `yaml:"events"      validate:"required"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"   validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"   validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"   validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"5s"    validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"   validate:"gt=0"`
}

type LoggerConfig struct {
	AppName  string `yaml:"app_name" env:"LOG_APP_NAME" env-default:"go-sleeper" validate:"required"`
	Level    string `yaml:"level"    env:"LOG_LEVEL"    env-default:"info"       validate:"required,oneof=debug info warn error"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"       validate:"required,oneof=json console"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"   env:"STORAGE_DRIVER" env-default:"memory" validate:"required,oneof=memory postgres"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host"              env:"DB_HOST"              env-default:"localhost" validate:"required"`
	Port            int           `yaml:"port"              env:"DB_PORT"              env-default:"5432"      validate:"required,min=1,max=65535"`
	User            string        `yaml:"user"              env:"DB_USER"              env-default:"postgres"  validate:"required"`
	Password        string        `yaml:"password"          env:"DB_PASSWORD"          env-default:"postgres"  validate:"required"`
	Database        string        `yaml:"database"          env:"DB_NAME"              env-default:"sleeper"   validate:"required"`
	SSLMode         string        `yaml:"sslmode"           env:"DB_SSLMODE"           env-default:"disable"   validate:"required,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"DB_MAX_OPEN_CONNS"    env-default:"10"        validate:"min=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"DB_MAX_IDLE_CONNS"    env-default:"5"         validate:"min=1"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"        validate:"gt=0"`
	ConnectRetries  uint64        `yaml:"connect_retries"   env:"DB_CONNECT_RETRIES"   env-default:"5"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"     env:"DB_RETRY_BACKOFF"     env-default:"500ms"     validate:"gt=0"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ReservationConfig struct {
	RatePerKm   float64       `yaml:"rate_per_km"  env:"RESERVATION_RATE_PER_KM"  env-default:"0.8" validate:"gt=0"`
	LockTimeout time.Duration `yaml:"lock_timeout" env:"RESERVATION_LOCK_TIMEOUT" env-default:"2s"  validate:"gt=0"`
}

type EventsConfig struct {
	Transport  string      `yaml:"transport"   env:"EVENTS_TRANSPORT"   env-default:"inprocess" validate:"required,oneof=inprocess channels kafka redis"`
	BufferSize int64       `yaml:"buffer_size" env:"EVENTS_BUFFER_SIZE" env-default:"64"        validate:"min=0"`
	Kafka      KafkaConfig `yaml:"kafka"`
	Redis      RedisConfig `yaml:"redis"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"        env:"KAFKA_BROKERS"        env-default:"localhost:9092" env-separator:","`
	ConsumerGroup string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"sleeper-audit"`
	ClientID      string   `yaml:"client_id"      env:"KAFKA_CLIENT_ID"      env-default:"go-sleeper"`
}

type RedisConfig struct {
	Addr          string `yaml:"addr"           env:"REDIS_ADDR"           env-default:"localhost:6379"`
	Password      string `yaml:"password"       env:"REDIS_PASSWORD"`
	DB            int    `yaml:"db"             env:"REDIS_DB"             env-default:"0" validate:"min=0"`
	ConsumerGroup string `yaml:"consumer_group" env:"REDIS_CONSUMER_GROUP" env-default:"sleeper-audit"`
	Consumer      string `yaml:"consumer"       env:"REDIS_CONSUMER"       env-default:"sleeper-1"`
}

// Load lê o YAML em path, sobrepõe as variáveis de ambiente e valida o resultado.
// Com path vazio apenas o ambiente é lido.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Events.Transport {
	case TransportKafka:
		if len(c.Events.Kafka.Brokers) == 0 || strings.TrimSpace(c.Events.Kafka.ConsumerGroup) == "" {
			return errors.New("invalid config: kafka transport needs brokers and a consumer group")
		}
	case TransportRedis:
		if strings.TrimSpace(c.Events.Redis.Addr) == "" || strings.TrimSpace(c.Events.Redis.ConsumerGroup) == "" {
			return errors.New("invalid config: redis transport needs an address and a consumer group")
		}
	}
	return nil
}

// Path resolve o arquivo de configuração por CONFIG_PATH, ou config.yml quando ele existe.
func Path() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func MustLoad() *Config {
	cfg, err := Load(Path())
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
