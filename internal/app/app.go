package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/accountabot/internal/bot"
	"github.com/templui/accountabot/internal/config"
	"github.com/templui/accountabot/internal/db"
	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/notify"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/scanner"
	"github.com/templui/accountabot/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Metrics         *metrics.Metrics
	GoalService     *service.GoalService
	VoteService     *service.VoteService
	EvidenceService *service.EvidenceService
	Bot             *bot.Bot
	Notifier        notify.Notifier
	Scanner         *scanner.Scanner
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Database (sql backend only)
	var database *sqlx.DB
	if cfg.StoreBackend == repository.BackendSQL {
		var err error
		database, err = db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	// Repositories
	repos, err := repository.Open(cfg.StoreBackend, cfg.DataDir, database)
	if err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	slog.Info("store opened", "backend", cfg.StoreBackend, "data_dir", cfg.DataDir)

	// Notifications
	notifier, err := newNotifier(cfg)
	if err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Services
	m := metrics.New(cfg.AppName)
	goalService := service.NewGoalService(repos.Goals, m)
	voteService := service.NewVoteService(repos.Votes, repos.Goals, m)
	evidenceService := service.NewEvidenceService(repos.Evidences, repos.Goals, m)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Metrics:         m,
		GoalService:     goalService,
		VoteService:     voteService,
		EvidenceService: evidenceService,
		Bot:             bot.New(goalService, voteService, evidenceService),
		Notifier:        notifier,
		Scanner:         scanner.New(goalService, notifier, cfg.ScanInterval, scanner.WithMetrics(m)),
	}, nil
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.Notifier == config.NotifierWebhook {
		slog.Info("webhook notifier configured", "channels", len(cfg.ChannelWebhooks))
		return notify.NewWebhookNotifier(cfg.ChannelWebhooks, cfg.WebhookSecret, nil)
	}
	return notify.NewLogNotifier(), nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
