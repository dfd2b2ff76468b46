// Copyright 2024-2026 Aiku AI

package channelbot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	up "go.mau.fi/util/configupgrade"
	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

// ErrMissingConfig is wrapped by every missing required value.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds the publisher configuration.
type Config struct {
	Telegram   TelegramConfig `yaml:"telegram"`
	Health     HealthConfig   `yaml:"health"`
	Mattermost MirrorConfig   `yaml:"mattermost"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds the Bot API settings.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	// ChannelID is a numeric chat id or an @username.
	ChannelID   string `yaml:"channel_id"`
	OwnerID     int64  `yaml:"owner_id"`
	APIURL      string `yaml:"api_url"`
	PollTimeout int    `yaml:"poll_timeout"`
}

type HealthConfig struct {
	Port int `yaml:"port"`
}

// MirrorConfig configures the optional Mattermost mirror.
type MirrorConfig struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// Enabled reports whether the mirror has everything it needs.
func (c MirrorConfig) Enabled() bool {
	return c.ServerURL != "" && c.Token != "" && c.ChannelID != ""
}

type LoggingConfig struct {
	MinLevel string `yaml:"min_level"`
	Format   string `yaml:"format"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

func upgradeConfig(helper up.Helper) {
	helper.Copy(up.Str, "telegram", "bot_token")
	helper.Copy(up.Str|up.Int, "telegram", "channel_id")
	helper.Copy(up.Int, "telegram", "owner_id")
	helper.Copy(up.Str, "telegram", "api_url")
	helper.Copy(up.Int, "telegram", "poll_timeout")
	helper.Copy(up.Int, "health", "port")
	helper.Copy(up.Str, "mattermost", "server_url")
	helper.Copy(up.Str, "mattermost", "token")
	helper.Copy(up.Str, "mattermost", "channel_id")
	helper.Copy(up.Str, "logging", "min_level")
	helper.Copy(up.Str, "logging", "format")
}

// Upgrader merges a user config onto the example config.
func Upgrader() *up.StructUpgrader {
	return &up.StructUpgrader{
		SimpleUpgrader: up.SimpleUpgrader(upgradeConfig),
		Blocks: [][]string{
			{"health"},
			{"mattermost"},
			{"logging"},
		},
		Base: ExampleConfig,
	}
}

// LoadConfig reads the config file at path, filling gaps from the example
// config, then applies environment overrides. An empty path or a missing
// file yields the example defaults. The result is not validated.
func LoadConfig(path string) (*Config, error) {
	data := []byte(ExampleConfig)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, _, err = up.Do(path, false, Upgrader())
			if err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("BOT_TOKEN", &c.Telegram.BotToken)
	str("CHANNEL_ID", &c.Telegram.ChannelID)
	str("MATTERMOST_MIRROR_URL", &c.Mattermost.ServerURL)
	str("MATTERMOST_MIRROR_TOKEN", &c.Mattermost.Token)
	str("MATTERMOST_MIRROR_CHANNEL", &c.Mattermost.ChannelID)

	if v, ok := lookup("OWNER_ID"); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid OWNER_ID %q: %w", v, err)
		}
		c.Telegram.OwnerID = id
	}
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Health.Port = port
	}
	return nil
}

// Validate reports every missing required value.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, fmt.Errorf("%w: telegram.bot_token (BOT_TOKEN)", ErrMissingConfig))
	}
	if c.Telegram.ChannelID == "" {
		errs = append(errs, fmt.Errorf("%w: telegram.channel_id (CHANNEL_ID)", ErrMissingConfig))
	}
	if c.Telegram.OwnerID == 0 {
		errs = append(errs, fmt.Errorf("%w: telegram.owner_id (OWNER_ID)", ErrMissingConfig))
	}
	if c.Health.Port < 0 || c.Health.Port > 65535 {
		errs = append(errs, fmt.Errorf("health.port %d out of range", c.Health.Port))
	}
	return errors.Join(errs...)
}

// Channel returns the publish target.
func (c *Config) Channel() Target {
	return Target(c.Telegram.ChannelID)
}

// HealthAddr returns the health server listen address.
func (c *Config) HealthAddr() string {
	return ":" + strconv.Itoa(c.Health.Port)
}
