// Package config defines the top-level configuration for pxwatch and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PXWATCH_* environment variables.
type Config struct {
	Coinranking CoinrankingConfig `toml:"coinranking"`
	Poller      PollerConfig      `toml:"poller"`
	Alert       AlertConfig       `toml:"alert"`
	Redis       RedisConfig       `toml:"redis"`
	Server      ServerConfig      `toml:"server"`
	Notify      NotifyConfig      `toml:"notify"`
	Mode        string            `toml:"mode"`
	LogLevel    string            `toml:"log_level"`
}

// CoinrankingConfig holds coinranking API endpoint and query parameters.
type CoinrankingConfig struct {
	BaseURL               string `toml:"base_url"`
	APIKey                string `toml:"api_key"`
	APIHost               string `toml:"api_host"`
	ReferenceCurrencyUUID string `toml:"reference_currency_uuid"`
	TimePeriod            string `toml:"time_period"`
	Tiers                 string `toml:"tiers"`
	OrderBy               string `toml:"order_by"`
	OrderDirection        string `toml:"order_direction"`
	Limit                 int    `toml:"limit"`
	Offset                int    `toml:"offset"`
}

// PollerConfig holds price polling parameters.
type PollerConfig struct {
	Interval     duration `toml:"interval"`
	FetchTimeout duration `toml:"fetch_timeout"`
	Symbols      []string `toml:"symbols"`
}

// AlertConfig holds alert evaluation and delivery preferences.
type AlertConfig struct {
	// NotifyPolicy selects when a matching watch fires: "every-pass" repeats
	// the alert on each poll while the price stays in range, "on-entry" fires
	// once per range entry.
	NotifyPolicy     string `toml:"notify_policy"`
	PreferBackground bool   `toml:"prefer_background"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string `toml:"telegram_token"`
	TelegramChatID    string `toml:"telegram_chat_id"`
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	Console           bool   `toml:"console"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "20m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "20m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Coinranking: CoinrankingConfig{
			BaseURL:               "https://coinranking1.p.rapidapi.com",
			APIHost:               "coinranking1.p.rapidapi.com",
			ReferenceCurrencyUUID: "yhjMzLPhuIDl",
			TimePeriod:            "24h",
			Tiers:                 "1",
			OrderBy:               "marketCap",
			OrderDirection:        "desc",
			Limit:                 50,
			Offset:                0,
		},
		Poller: PollerConfig{
			Interval:     duration{20 * time.Minute},
			FetchTimeout: duration{10 * time.Second},
			Symbols:      append([]string(nil), domain.DefaultSymbols...),
		},
		Alert: AlertConfig{
			NotifyPolicy:     "every-pass",
			PreferBackground: false,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Console: true,
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"watch":  true,
	"server": true,
	"full":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validNotifyPolicies enumerates the accepted values for Alert.NotifyPolicy.
var validNotifyPolicies = map[string]bool{
	"every-pass": true,
	"on-entry":   true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: watch, server, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Coinranking
	if c.Coinranking.BaseURL == "" {
		errs = append(errs, "coinranking: base_url must not be empty")
	}
	if c.Coinranking.APIKey == "" {
		errs = append(errs, "coinranking: api_key must be set (PXWATCH_COINRANKING_API_KEY)")
	}
	if c.Coinranking.APIHost == "" {
		errs = append(errs, "coinranking: api_host must not be empty")
	}
	if c.Coinranking.Limit < 1 {
		errs = append(errs, "coinranking: limit must be >= 1")
	}
	if c.Coinranking.Offset < 0 {
		errs = append(errs, "coinranking: offset must be >= 0")
	}

	// Poller
	if c.Poller.Interval.Duration <= 0 {
		errs = append(errs, "poller: interval must be positive")
	}
	if c.Poller.FetchTimeout.Duration <= 0 {
		errs = append(errs, "poller: fetch_timeout must be positive")
	}
	if len(c.Poller.Symbols) == 0 {
		errs = append(errs, "poller: symbols must not be empty")
	}

	// Alert
	if !validNotifyPolicies[c.Alert.NotifyPolicy] {
		errs = append(errs, fmt.Sprintf("alert: unknown notify_policy %q (valid: every-pass, on-entry)", c.Alert.NotifyPolicy))
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Notify: telegram token and chat ID must be set together.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must both be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
