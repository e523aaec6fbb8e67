// Package appconfig loads configuration for cmd/flogdemo: defaults,
// optionally overridden by a YAML file, then by environment variables.
// This loader exists only for the demo binary — the core library never
// reads configuration of its own.
package appconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config is the demo binary's full configuration surface.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Logger  LoggerConfig  `yaml:"logger"`
	Backend BackendConfig `yaml:"backend"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggerConfig struct {
	Name     string `yaml:"name"`
	MinLevel string `yaml:"min_level"`
}

// BackendConfig selects and configures one of the two backend kinds the
// demo wires up. Type is "console" or "kafka".
type BackendConfig struct {
	Type    string        `yaml:"type"`
	Console ConsoleConfig `yaml:"console"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

type ConsoleConfig struct {
	Format string `yaml:"format"` // "text" or "json"
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	Compression  string   `yaml:"compression"`
	RequiredAcks int16    `yaml:"required_acks"`
	SASLEnabled  bool     `yaml:"sasl_enabled"`
	SASLUsername string   `yaml:"sasl_username"`
	SASLPassword string   `yaml:"sasl_password"`
	SASLMechanism string  `yaml:"sasl_mechanism"`
	Workers      int      `yaml:"workers"`
	QueueSize    int      `yaml:"queue_size"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load builds a Config from defaults, optionally overridden by the YAML
// file at path (path == "" skips this step), then by environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("appconfig: loading %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("appconfig: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.App.Name = "flogdemo"
	cfg.App.Environment = "development"

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080

	cfg.Logger.Name = "flogdemo"
	cfg.Logger.MinLevel = "INFO"

	cfg.Backend.Type = "console"
	cfg.Backend.Console.Format = "text"
	cfg.Backend.Kafka.Compression = "none"
	cfg.Backend.Kafka.RequiredAcks = 1
	cfg.Backend.Kafka.Workers = 4
	cfg.Backend.Kafka.QueueSize = 1000

	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	cfg.App.Name = getEnvString("FLOGDEMO_APP_NAME", cfg.App.Name)
	cfg.App.Environment = getEnvString("FLOGDEMO_APP_ENVIRONMENT", cfg.App.Environment)

	cfg.Server.Host = getEnvString("FLOGDEMO_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("FLOGDEMO_SERVER_PORT", cfg.Server.Port)

	cfg.Logger.Name = getEnvString("FLOGDEMO_LOGGER_NAME", cfg.Logger.Name)
	cfg.Logger.MinLevel = getEnvString("FLOGDEMO_LOGGER_MIN_LEVEL", cfg.Logger.MinLevel)

	cfg.Backend.Type = getEnvString("FLOGDEMO_BACKEND_TYPE", cfg.Backend.Type)
	cfg.Backend.Console.Format = getEnvString("FLOGDEMO_CONSOLE_FORMAT", cfg.Backend.Console.Format)

	cfg.Backend.Kafka.Brokers = getEnvStringSlice("FLOGDEMO_KAFKA_BROKERS", cfg.Backend.Kafka.Brokers)
	cfg.Backend.Kafka.Topic = getEnvString("FLOGDEMO_KAFKA_TOPIC", cfg.Backend.Kafka.Topic)
	cfg.Backend.Kafka.Compression = getEnvString("FLOGDEMO_KAFKA_COMPRESSION", cfg.Backend.Kafka.Compression)
	cfg.Backend.Kafka.SASLEnabled = getEnvBool("FLOGDEMO_KAFKA_SASL_ENABLED", cfg.Backend.Kafka.SASLEnabled)
	cfg.Backend.Kafka.SASLUsername = getEnvString("FLOGDEMO_KAFKA_SASL_USERNAME", cfg.Backend.Kafka.SASLUsername)
	cfg.Backend.Kafka.SASLPassword = getEnvString("FLOGDEMO_KAFKA_SASL_PASSWORD", cfg.Backend.Kafka.SASLPassword)
	cfg.Backend.Kafka.SASLMechanism = getEnvString("FLOGDEMO_KAFKA_SASL_MECHANISM", cfg.Backend.Kafka.SASLMechanism)
	cfg.Backend.Kafka.Workers = getEnvInt("FLOGDEMO_KAFKA_WORKERS", cfg.Backend.Kafka.Workers)
	cfg.Backend.Kafka.QueueSize = getEnvInt("FLOGDEMO_KAFKA_QUEUE_SIZE", cfg.Backend.Kafka.QueueSize)

	cfg.Metrics.Enabled = getEnvBool("FLOGDEMO_METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Path = getEnvString("FLOGDEMO_METRICS_PATH", cfg.Metrics.Path)
}

func validate(cfg *Config) error {
	switch cfg.Backend.Type {
	case "console":
	case "kafka":
		if len(cfg.Backend.Kafka.Brokers) == 0 {
			return fmt.Errorf("backend.kafka.brokers must not be empty when backend.type is kafka")
		}
		if cfg.Backend.Kafka.Topic == "" {
			return fmt.Errorf("backend.kafka.topic must not be empty when backend.type is kafka")
		}
	default:
		return fmt.Errorf("unknown backend.type %q", cfg.Backend.Type)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
