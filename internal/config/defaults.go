package config

import "time"

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}

	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://localhost:3000/api"
	}
	if cfg.Upstream.ProfilePath == "" {
		cfg.Upstream.ProfilePath = "/user/me"
	}
	if cfg.Upstream.CardPath == "" {
		cfg.Upstream.CardPath = "/card/{id}"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 5 * time.Second
	}

	if cfg.Avatar.Timeout == 0 {
		cfg.Avatar.Timeout = 5 * time.Second
	}
	if cfg.Avatar.MaxBytes == 0 {
		cfg.Avatar.MaxBytes = 2 << 20
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 10 * time.Minute
	}

	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "namecard"
	}
	if cfg.Kafka.CardTopic == "" {
		cfg.Kafka.CardTopic = "card.updated"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "namecard"
	}

	if cfg.Cleanup.OlderThan == 0 {
		cfg.Cleanup.OlderThan = 4 * time.Hour
	}
}
