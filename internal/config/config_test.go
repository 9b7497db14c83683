package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultsValidateWithAPIKey(t *testing.T) {
	cfg := Defaults()
	cfg.Coinranking.APIKey = "test-key"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing api key",
			mutate: func(c *Config) { c.Coinranking.APIKey = "" },
			want:   "coinranking: api_key",
		},
		{
			name:   "unknown mode",
			mutate: func(c *Config) { c.Mode = "banana" },
			want:   "unknown mode",
		},
		{
			name:   "unknown notify policy",
			mutate: func(c *Config) { c.Alert.NotifyPolicy = "always" },
			want:   "notify_policy",
		},
		{
			name:   "zero poll interval",
			mutate: func(c *Config) { c.Poller.Interval = duration{} },
			want:   "interval must be positive",
		},
		{
			name:   "no symbols",
			mutate: func(c *Config) { c.Poller.Symbols = nil },
			want:   "symbols must not be empty",
		},
		{
			name:   "telegram token without chat id",
			mutate: func(c *Config) { c.Notify.TelegramToken = "abc" },
			want:   "telegram_token and telegram_chat_id",
		},
		{
			name:   "bad server port",
			mutate: func(c *Config) { c.Server.Port = 99999 },
			want:   "port must be 1-65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Coinranking.APIKey = "test-key"
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
mode = "watch"

[poller]
interval = "5m"
symbols = ["BTC", "ETH"]

[coinranking]
api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PXWATCH_COINRANKING_API_KEY", "from-env")
	t.Setenv("PXWATCH_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "watch", cfg.Mode)
	require.Equal(t, 5*time.Minute, cfg.Poller.Interval.Duration)
	require.Equal(t, []string{"BTC", "ETH"}, cfg.Poller.Symbols)
	// Env vars win over file values.
	require.Equal(t, "from-env", cfg.Coinranking.APIKey)
	require.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	// Untouched fields keep defaults.
	require.Equal(t, 10*time.Second, cfg.Poller.FetchTimeout.Duration)
	require.Equal(t, "every-pass", cfg.Alert.NotifyPolicy)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Coinranking.APIKey = "secret-key"
	cfg.Redis.Password = "hunter2"
	cfg.Notify.TelegramToken = "tg-token"

	red := RedactedConfig(&cfg)
	require.Equal(t, "***", red.Coinranking.APIKey)
	require.Equal(t, "***", red.Redis.Password)
	require.Equal(t, "***", red.Notify.TelegramToken)
	// Empty secrets stay empty rather than being replaced.
	require.Empty(t, red.Server.APIKey)
	// Original is untouched.
	require.Equal(t, "secret-key", cfg.Coinranking.APIKey)
}
