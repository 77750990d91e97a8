package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	NotifierLog     = "log"
	NotifierWebhook = "webhook"
)

// APP_NAME doubles as the Prometheus namespace.
var appNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Storage: "memory", "json" or "sql"
	StoreBackend string
	DataDir      string

	// Database (sql backend, default driver: sqlite)
	DBDriver     string
	DBConnection string

	// Scanner
	ScanInterval time.Duration

	// Notifications
	Notifier        string
	ChannelWebhooks map[string]string
	WebhookSecret   string

	// HTTP: commands per client per minute, 0 disables
	RateLimit int

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool
}

func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	webhooks, err := parseChannelMap(envString("CHANNEL_WEBHOOKS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid CHANNEL_WEBHOOKS: %w", err)
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "accountabot"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Storage
		StoreBackend: envString("STORE_BACKEND", "json"),
		DataDir:      envString("DATA_DIR", "./data"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/accountabot.db?_pragma=journal_mode(WAL)"),

		// Scanner
		ScanInterval: envDuration("SCAN_INTERVAL", 10*time.Minute),

		// Notifications
		Notifier:        envString("NOTIFIER", NotifierLog),
		ChannelWebhooks: webhooks,
		WebhookSecret:   envString("WEBHOOK_SECRET", ""),

		// HTTP
		RateLimit: envInt("RATE_LIMIT", 60),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late, after the scanner
// or the HTTP server has started.
func (c *Config) Validate() error {
	if !appNamePattern.MatchString(c.AppName) {
		return fmt.Errorf("APP_NAME must match %s, got %q", appNamePattern, c.AppName)
	}

	switch c.StoreBackend {
	case "memory", "json", "sql":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, json or sql, got %q", c.StoreBackend)
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierWebhook:
		if c.WebhookSecret == "" {
			return fmt.Errorf("NOTIFIER=webhook requires WEBHOOK_SECRET")
		}
	default:
		return fmt.Errorf("NOTIFIER must be log or webhook, got %q", c.Notifier)
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %s", c.ScanInterval)
	}

	// Production: notifications have to reach real channels
	if c.IsProduction() && c.Notifier != NotifierWebhook {
		return fmt.Errorf("production deployment requires NOTIFIER=webhook")
	}

	return nil
}

// parseChannelMap reads "id=url,id=url".
func parseChannelMap(s string) (map[string]string, error) {
	channels := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, url, ok := strings.Cut(pair, "=")
		id, url = strings.TrimSpace(id), strings.TrimSpace(url)
		if !ok || id == "" || url == "" {
			return nil, fmt.Errorf("expected channel=url, got %q", pair)
		}
		channels[id] = url
	}
	return channels, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
