package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PXWATCH_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PXWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Coinranking ──
	setStr(&cfg.Coinranking.BaseURL, "PXWATCH_COINRANKING_BASE_URL")
	setStr(&cfg.Coinranking.APIKey, "PXWATCH_COINRANKING_API_KEY")
	setStr(&cfg.Coinranking.APIHost, "PXWATCH_COINRANKING_API_HOST")
	setStr(&cfg.Coinranking.ReferenceCurrencyUUID, "PXWATCH_COINRANKING_REFERENCE_CURRENCY_UUID")
	setStr(&cfg.Coinranking.TimePeriod, "PXWATCH_COINRANKING_TIME_PERIOD")
	setStr(&cfg.Coinranking.Tiers, "PXWATCH_COINRANKING_TIERS")
	setStr(&cfg.Coinranking.OrderBy, "PXWATCH_COINRANKING_ORDER_BY")
	setStr(&cfg.Coinranking.OrderDirection, "PXWATCH_COINRANKING_ORDER_DIRECTION")
	setInt(&cfg.Coinranking.Limit, "PXWATCH_COINRANKING_LIMIT")
	setInt(&cfg.Coinranking.Offset, "PXWATCH_COINRANKING_OFFSET")

	// ── Poller ──
	setDuration(&cfg.Poller.Interval, "PXWATCH_POLLER_INTERVAL")
	setDuration(&cfg.Poller.FetchTimeout, "PXWATCH_POLLER_FETCH_TIMEOUT")
	setStringSlice(&cfg.Poller.Symbols, "PXWATCH_POLLER_SYMBOLS")

	// ── Alert ──
	setStr(&cfg.Alert.NotifyPolicy, "PXWATCH_ALERT_NOTIFY_POLICY")
	setBool(&cfg.Alert.PreferBackground, "PXWATCH_ALERT_PREFER_BACKGROUND")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "PXWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PXWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PXWATCH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PXWATCH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PXWATCH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PXWATCH_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "PXWATCH_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "PXWATCH_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PXWATCH_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "PXWATCH_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PXWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PXWATCH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PXWATCH_NOTIFY_DISCORD_WEBHOOK_URL")
	setBool(&cfg.Notify.Console, "PXWATCH_NOTIFY_CONSOLE")

	// ── Top-level ──
	setStr(&cfg.Mode, "PXWATCH_MODE")
	setStr(&cfg.LogLevel, "PXWATCH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
