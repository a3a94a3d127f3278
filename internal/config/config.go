// Package config loads scrapex's configuration via viper: a YAML file
// (or none — every key has a default), overridable by SCRAPEX_*
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every configuration section the scrapex CLI reads.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Client  ClientConfig  `mapstructure:"client"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig configures the Engine (spec.md §4.4.1's options).
type EngineConfig struct {
	Name     string        `mapstructure:"name"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ClientConfig configures the default HTTP client.
type ClientConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	BodyTimeout time.Duration `mapstructure:"body_timeout"`
}

// ReportConfig configures the supplemental SEO analysis/report suite.
type ReportConfig struct {
	Format string `mapstructure:"format"` // "json", "html", "markdown"
}

// LoggingConfig configures zerolog's output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configPath (or the default search path if empty), applies
// defaults for every unset key, and overlays SCRAPEX_* env vars.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("scrapex")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.scrapex")
	}

	setDefaults(v)
	v.SetEnvPrefix("SCRAPEX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.name", "scrapex")
	v.SetDefault("engine.interval", "5m")
	v.SetDefault("engine.timeout", "30s")

	v.SetDefault("client.user_agent", "scrapex/1.0")
	v.SetDefault("client.timeout", "30s")
	v.SetDefault("client.body_timeout", "15s")

	v.SetDefault("report.format", "json")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Engine.Interval < 0 {
		return fmt.Errorf("engine.interval must not be negative")
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine.timeout must be positive")
	}
	switch c.Report.Format {
	case "json", "html", "markdown":
	default:
		return fmt.Errorf("report.format must be one of json, html, markdown")
	}
	return nil
}
