package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const envPrefix = "NAMECARD_"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the YAML file at path, applies defaults and environment
// overrides, and validates the result. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}

func applyEnvOverrides(cfg *Config) {
	setString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setString("SERVER_MODE", &cfg.Server.Mode)
	setDuration("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)

	setString("UPSTREAM_BASE_URL", &cfg.Upstream.BaseURL)
	setDuration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)

	setDuration("AVATAR_TIMEOUT", &cfg.Avatar.Timeout)
	if val := os.Getenv(envPrefix + "AVATAR_MAX_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Avatar.MaxBytes = i
		}
	}

	if val := os.Getenv(envPrefix + "AVATAR_ALLOWED_HOSTS"); val != "" {
		cfg.Avatar.AllowedHosts = strings.Split(val, ",")
	}
	setBool("AVATAR_ALLOW_PRIVATE", &cfg.Avatar.AllowPrivate)

	setBool("REDIS_ENABLED", &cfg.Redis.Enabled)
	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setBool("REDIS_USE_TLS", &cfg.Redis.UseTLS)
	setDuration("REDIS_TTL", &cfg.Redis.TTL)

	setBool("KAFKA_ENABLED", &cfg.Kafka.Enabled)
	if val := os.Getenv(envPrefix + "KAFKA_BROKERS"); val != "" {
		cfg.Kafka.Brokers = strings.Split(val, ",")
	}

	setString("LOGGING_LEVEL", &cfg.Logging.Level)
	setBool("LOGGING_DEVELOPMENT", &cfg.Logging.Development)

	setBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	setDuration("CLEANUP_OLDER_THAN", &cfg.Cleanup.OlderThan)
}

func setString(key string, dst *string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		*dst = val
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if val := os.Getenv(envPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
