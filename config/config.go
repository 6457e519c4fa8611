package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Signalflow SignalflowConfig `yaml:"signalflow"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Channels   ChannelsConfig   `yaml:"channels"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Writer     WriterConfig     `yaml:"writer"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	KeepAlive  KeepAliveConfig  `yaml:"keep_alive"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type SignalflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"`
	SourceChatID  int64  `yaml:"source_chat_id"`
	TargetChatID  int64  `yaml:"target_chat_id"`
	UpdateTimeout int    `yaml:"update_timeout"`
}

type ChannelsConfig struct {
	RawBuffer      int `yaml:"raw_buffer"`
	OutboundBuffer int `yaml:"outbound_buffer"`
}

type PipelineConfig struct {
	MaxWorkers      int           `yaml:"max_workers"`
	RetentionWindow time.Duration `yaml:"retention_window"`
	SymbolCooldown  time.Duration `yaml:"symbol_cooldown"`
}

type WriterConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	MessagesPerSecond float64 `yaml:"messages_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type DashboardConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Address        string `yaml:"address"`
	MetricsHistory int    `yaml:"metrics_history"`
}

type KeepAliveConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	URL      string        `yaml:"url"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Telegram: TelegramConfig{
			UpdateTimeout: 30,
		},
		Pipeline: PipelineConfig{
			MaxWorkers:      1,
			RetentionWindow: 24 * time.Hour,
			SymbolCooldown:  5 * time.Second,
		},
		Writer: WriterConfig{
			RateLimit: RateLimitConfig{
				MessagesPerSecond: 1,
				BurstSize:         1,
			},
		},
		KeepAlive: KeepAliveConfig{
			Interval: 3 * time.Minute,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides lets deployment environments supply secrets and channel
// IDs without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = strings.TrimSpace(v)
	}
	if v := os.Getenv("SOURCE_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Telegram.SourceChatID = id
		}
	}
	if v := os.Getenv("TARGET_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Telegram.TargetChatID = id
		}
	}
	if cfg.Metrics.CloudWatch.Enabled {
		if v := os.Getenv("AWS_REGION"); v != "" {
			cfg.Metrics.CloudWatch.Region = strings.TrimSpace(v)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Signalflow.Name == "" {
		return fmt.Errorf("signalflow.name is required")
	}

	if cfg.Signalflow.Version == "" {
		return fmt.Errorf("signalflow.version is required")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	if cfg.Telegram.SourceChatID == 0 {
		return fmt.Errorf("telegram.source_chat_id is required")
	}

	if cfg.Telegram.TargetChatID == 0 {
		return fmt.Errorf("telegram.target_chat_id is required")
	}

	if cfg.Telegram.SourceChatID == cfg.Telegram.TargetChatID {
		return fmt.Errorf("telegram.source_chat_id and telegram.target_chat_id must differ")
	}

	if cfg.Channels.RawBuffer <= 0 {
		return fmt.Errorf("channels.raw_buffer must be greater than 0")
	}

	if cfg.Channels.OutboundBuffer <= 0 {
		return fmt.Errorf("channels.outbound_buffer must be greater than 0")
	}

	if cfg.Pipeline.MaxWorkers <= 0 {
		return fmt.Errorf("pipeline.max_workers must be greater than 0")
	}
	if cfg.Pipeline.RetentionWindow <= 0 {
		return fmt.Errorf("pipeline.retention_window must be greater than 0")
	}
	if cfg.Pipeline.SymbolCooldown <= 0 {
		return fmt.Errorf("pipeline.symbol_cooldown must be greater than 0")
	}
	if cfg.Pipeline.SymbolCooldown >= cfg.Pipeline.RetentionWindow {
		return fmt.Errorf("pipeline.symbol_cooldown must be shorter than pipeline.retention_window")
	}

	if cfg.Writer.RateLimit.MessagesPerSecond <= 0 {
		return fmt.Errorf("writer.rate_limit.messages_per_second must be greater than 0")
	}
	if cfg.Writer.RateLimit.BurstSize <= 0 {
		return fmt.Errorf("writer.rate_limit.burst_size must be greater than 0")
	}

	if cfg.KeepAlive.Enabled && cfg.KeepAlive.Interval <= 0 {
		return fmt.Errorf("keep_alive.interval must be greater than 0 when keep-alive is enabled")
	}

	if cfg.Metrics.CloudWatch.Enabled && cfg.Metrics.CloudWatch.Region == "" {
		return fmt.Errorf("metrics.cloudwatch.region is required when CloudWatch is enabled")
	}

	return nil
}
