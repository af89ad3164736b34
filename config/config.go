package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Flight   FlightConfig   `yaml:"flight"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address     string `yaml:"address"`
	SwaggerPath string `yaml:"swagger_path"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type FlightConfig struct {
	Code                  string `yaml:"code"`
	MaxSeats              int    `yaml:"max_seats"`
	SaveCancelledOnCancel bool   `yaml:"save_cancelled_on_cancel"`
	SummaryCacheTTL       int    `yaml:"summary_cache_ttl_seconds"`
	SnapshotLockTTL       int    `yaml:"snapshot_lock_ttl_seconds"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver"`
	BookingsFile  string `yaml:"bookings_file"`
	CancelledFile string `yaml:"cancelled_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig leaves Addr empty to run without cache and lock.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig leaves Brokers empty to run without events.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishRetries     int      `yaml:"publish_retries"`
}

type WorkerConfig struct {
	AutosaveSeconds int `yaml:"autosave_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads .env (if present) into the environment, expands ${VARS}
// in the YAML file at path and fills defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Flight.Code == "" {
		c.Flight.Code = "FLIGHT-1"
	}
	if c.Flight.MaxSeats == 0 {
		c.Flight.MaxSeats = 100
	}
	if c.Flight.SummaryCacheTTL == 0 {
		c.Flight.SummaryCacheTTL = 30
	}
	if c.Flight.SnapshotLockTTL == 0 {
		c.Flight.SnapshotLockTTL = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageCSV
	}
	if c.Storage.BookingsFile == "" {
		c.Storage.BookingsFile = "bookings.csv"
	}
	if c.Storage.CancelledFile == "" {
		c.Storage.CancelledFile = "cancelled.csv"
	}
	if c.Kafka.BookingTopic == "" {
		c.Kafka.BookingTopic = "flight.bookings"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "flightseats-worker"
	}
	if c.Kafka.PublishRetries == 0 {
		c.Kafka.PublishRetries = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Flight.MaxSeats < 0 {
		return fmt.Errorf("flight.max_seats must not be negative, got %d", c.Flight.MaxSeats)
	}
	switch c.Storage.Driver {
	case StorageCSV, StoragePostgres:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageCSV, StoragePostgres, c.Storage.Driver)
	}
	if c.Worker.AutosaveSeconds < 0 {
		return fmt.Errorf("worker.autosave_seconds must not be negative")
	}
	return nil
}
