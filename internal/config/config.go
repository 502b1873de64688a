// Package config loads the service configuration from YAML with NAMECARD_*
// environment overrides.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Avatar   AvatarConfig   `yaml:"avatar"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

type ServerConfig struct {
	ListenAddress  string        `yaml:"listen_address" validate:"required"`
	Mode           string        `yaml:"mode" validate:"oneof=debug release test"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// UpstreamConfig points at the REST API that owns profiles and cards.
type UpstreamConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	ProfilePath string        `yaml:"profile_path" validate:"required"`
	CardPath    string        `yaml:"card_path" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

// AvatarConfig limits where avatar URLs may point. An empty AllowedHosts
// accepts any public host; entries are exact names or "*.domain" suffixes.
type AvatarConfig struct {
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBytes     int64         `yaml:"max_bytes" validate:"gt=0"`
	AllowedHosts []string      `yaml:"allowed_hosts" validate:"dive,hostname_rfc1123|startswith=*."`
	AllowPrivate bool          `yaml:"allow_private"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	UseTLS   bool          `yaml:"use_tls"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

type KafkaConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Brokers   []string `yaml:"brokers" validate:"required_if=Enabled true"`
	GroupID   string   `yaml:"group_id"`
	CardTopic string   `yaml:"card_topic"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace"`
}

type CleanupConfig struct {
	OlderThan time.Duration `yaml:"older_than" validate:"gt=0"`
}
