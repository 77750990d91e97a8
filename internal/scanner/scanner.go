package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/notify"
)

const DefaultInterval = 10 * time.Minute

const dueDateLayout = "January 2, 2006"

// GoalLister is the read side of the goal service the scanner depends on.
type GoalLister interface {
	Goals() ([]*model.Goal, error)
}

// Scanner periodically reports every goal as pending or overdue to the
// goal's channel. It does not remember earlier scans: an overdue goal is
// reported again on every cycle.
type Scanner struct {
	goals    GoalLister
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time
	location *time.Location
	metrics  *metrics.Metrics

	mu sync.Mutex // one scan at a time
}

type Option func(*Scanner)

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithLocation sets the time zone used to print due dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Scanner) { s.location = loc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

func New(goals GoalLister, notifier notify.Notifier, interval time.Duration, opts ...Option) *Scanner {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scanner{
		goals:    goals,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans once immediately and then every interval until ctx is done.
// A scan already in progress runs to completion.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("goal scanner started", "interval", s.interval)
	s.scanAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("goal scanner stopping")
			return nil

		case <-ticker.C:
			s.scanAndLog(ctx)
		}
	}
}

func (s *Scanner) scanAndLog(ctx context.Context) {
	notifications, err := s.Scan(context.WithoutCancel(ctx))
	if err != nil {
		slog.Error("goal scan failed", "error", err)
		return
	}
	slog.Debug("goal scan completed", "goals", len(notifications))
}

// Scan evaluates every goal against the current time and notifies its
// channel. Channels that cannot be resolved are skipped silently; other
// delivery failures are logged and the scan moves on. The returned slice
// has one entry per goal, in listing order.
func (s *Scanner) Scan(ctx context.Context) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.ObserveScan(time.Since(start)) }()

	goals, err := s.goals.Goals()
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	now := s.now()
	notifications := make([]model.Notification, 0, len(goals))
	for _, goal := range goals {
		n := s.evaluate(goal, now)

		err := s.notifier.Notify(ctx, goal.ChannelID, n.Text)
		switch {
		case err == nil:
			n.Delivered = true
			s.metrics.ObserveNotification(n.Kind, metrics.ResultDelivered)
		case errors.Is(err, notify.ErrChannelNotFound):
			s.metrics.ObserveNotification(n.Kind, metrics.ResultDropped)
			slog.Debug("notification dropped", "goal_id", goal.ID, "channel_id", goal.ChannelID)
		default:
			s.metrics.ObserveNotification(n.Kind, metrics.ResultFailed)
			slog.Warn("notification failed", "goal_id", goal.ID, "channel_id", goal.ChannelID, "error", err)
		}

		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (s *Scanner) evaluate(goal *model.Goal, now time.Time) model.Notification {
	kind := model.NotificationPending
	if goal.IsOverdue(now) {
		kind = model.NotificationOverdue
	}

	return model.Notification{
		GoalID:      goal.ID,
		ChannelID:   goal.ChannelID,
		Kind:        kind,
		Description: goal.Description,
		DueDate:     goal.DueDate,
		Text:        FormatMessage(goal, kind, s.location),
	}
}

// FormatMessage renders the channel text for a goal status.
func FormatMessage(goal *model.Goal, kind string, loc *time.Location) string {
	due := goal.DueDate.In(loc).Format(dueDateLayout)
	status := "is yet to be completed."
	if kind == model.NotificationOverdue {
		status = "is overdue."
	}
	return fmt.Sprintf("Goal with ID: %d, description: %s, and due date: %s %s", goal.ID, goal.Description, due, status)
}
