// Package config provides YAML-based configuration loading for Staffyard.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Staffyard configuration, loaded from
// staffyard.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Board     BoardConfig     `yaml:"board"`
	Reference ReferenceConfig `yaml:"reference"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig holds database connection settings. The sqlite driver uses
// Path; the mysql driver uses Host/Port/Database/User/Password.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite or mysql
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// BoardConfig holds planning-board behavior settings.
type BoardConfig struct {
	// HistoryLimit bounds the undo stack per session.
	HistoryLimit int `yaml:"history_limit"`
	// AutosaveDelaySeconds is the debounce after the last mutation
	// before the board is written back.
	AutosaveDelaySeconds int `yaml:"autosave_delay_seconds"`
}

// ReferenceConfig seeds the unit and position-code reference lists.
type ReferenceConfig struct {
	Units         []string             `yaml:"units"`
	PositionCodes []PositionCodeConfig `yaml:"position_codes"`
}

// PositionCodeConfig is one seeded position code.
type PositionCodeConfig struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// NotifyConfig holds chat notification settings. Adapters with no token
// configured are simply not started.
type NotifyConfig struct {
	Slack      SlackConfig   `yaml:"slack"`
	Discord    DiscordConfig `yaml:"discord"`
	DigestCron string        `yaml:"digest_cron"` // 5-field cron, empty disables
}

// SlackConfig holds Slack bot settings.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DiscordConfig holds Discord bot settings.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "staffyard.db"
	}
	if c.DB.Driver == "mysql" {
		if c.DB.Host == "" {
			c.DB.Host = "127.0.0.1"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 3306
		}
		if c.DB.User == "" {
			c.DB.User = "root"
		}
	}
	if c.Board.HistoryLimit == 0 {
		c.Board.HistoryLimit = 50
	}
	if c.Board.AutosaveDelaySeconds == 0 {
		c.Board.AutosaveDelaySeconds = 2
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite":
	case "mysql":
		if c.DB.Database == "" {
			errs = append(errs, "db.database is required for the mysql driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not one of sqlite, mysql", c.DB.Driver))
	}
	if c.Notify.Slack.Token != "" && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required when a slack token is set")
	}
	if c.Notify.Discord.Token != "" && c.Notify.Discord.Channel == "" {
		errs = append(errs, "notify.discord.channel is required when a discord token is set")
	}
	for i, pc := range c.Reference.PositionCodes {
		if pc.Code == "" {
			errs = append(errs, fmt.Sprintf("reference.position_codes[%d].code is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
