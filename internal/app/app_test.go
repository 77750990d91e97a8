package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/accountabot/internal/bot"
	"github.com/templui/accountabot/internal/config"
	"github.com/templui/accountabot/internal/notify"
)

func testConfig(t *testing.T, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		AppName:      "accountabot",
		AppEnv:       "development",
		StoreBackend: backend,
		DataDir:      dir,
		DBDriver:     "sqlite",
		DBConnection: filepath.Join(dir, "bot.db"),
		ScanInterval: time.Minute,
		Notifier:     config.NotifierLog,
	}
}

func TestNewWiresEveryBackend(t *testing.T) {
	for _, backend := range []string{"memory", "json", "sql"} {
		t.Run(backend, func(t *testing.T) {
			a, err := New(context.Background(), testConfig(t, backend))
			require.NoError(t, err)
			defer a.Close()

			reply, err := a.Bot.Dispatch("u1", "c1", bot.CreateGoal{Description: "Run 5k", DueDate: time.Now().Add(-time.Hour)})
			require.NoError(t, err)
			assert.Equal(t, "Goal created with ID: 1", reply.Text)

			notifications, err := a.Scanner.Scan(context.Background())
			require.NoError(t, err)
			require.Len(t, notifications, 1)
			assert.True(t, notifications[0].Delivered)
		})
	}
}

func TestNewWebhookNotifier(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Notifier = config.NotifierWebhook
	cfg.WebhookSecret = "secret"
	cfg.ChannelWebhooks = map[string]string{"c1": "http://127.0.0.1:1/hook"}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &notify.WebhookNotifier{}, a.Notifier)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "redis"))
	assert.Error(t, err)
}
