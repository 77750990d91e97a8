package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/notify"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/service"
)

type sent struct {
	channelID string
	text      string
}

type recordingNotifier struct {
	mu       sync.Mutex
	channels map[string]bool
	fail     error
	sent     []sent
}

func (n *recordingNotifier) Notify(_ context.Context, channelID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.channels[channelID] {
		return notify.ErrChannelNotFound
	}
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sent{channelID, text})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type failingLister struct{}

func (failingLister) Goals() ([]*model.Goal, error) {
	return nil, errors.New("disk on fire")
}

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func setupGoals(t *testing.T) *service.GoalService {
	t.Helper()
	return service.NewGoalService(repository.NewMemoryGoalRepository(), nil)
}

func newScanner(goals GoalLister, n notify.Notifier, opts ...Option) *Scanner {
	opts = append([]Option{WithClock(func() time.Time { return now }), WithLocation(time.UTC)}, opts...)
	return New(goals, n, time.Minute, opts...)
}

func TestScanOverdueGoal(t *testing.T) {
	goals := setupGoals(t)
	goal, err := goals.Create("u1", "Run 5k", now.Add(-24*time.Hour), "c1")
	require.NoError(t, err)

	n := &recordingNotifier{channels: map[string]bool{"c1": true}}
	notifications, err := newScanner(goals, n).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, notifications, 1)
	assert.Equal(t, goal.ID, notifications[0].GoalID)
	assert.Equal(t, model.NotificationOverdue, notifications[0].Kind)
	assert.True(t, notifications[0].Delivered)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "c1", n.sent[0].channelID)
	assert.Equal(t, "Goal with ID: 1, description: Run 5k, and due date: October 18, 2026 is overdue.", n.sent[0].text)
}

func TestScanPendingGoal(t *testing.T) {
	goals := setupGoals(t)
	_, err := goals.Create("u1", "Read a book", now.Add(72*time.Hour), "c2")
	require.NoError(t, err)

	n := &recordingNotifier{channels: map[string]bool{"c2": true}}
	notifications, err := newScanner(goals, n).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationPending, notifications[0].Kind)
	assert.Equal(t, "Goal with ID: 1, description: Read a book, and due date: October 22, 2026 is yet to be completed.", n.sent[0].text)
}

func TestScanDueExactlyNowIsOverdue(t *testing.T) {
	goals := setupGoals(t)
	_, err := goals.Create("u1", "Ship it", now, "c1")
	require.NoError(t, err)

	n := &recordingNotifier{channels: map[string]bool{"c1": true}}
	notifications, err := newScanner(goals, n).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NotificationOverdue, notifications[0].Kind)
}

func TestScanDropsUnresolvedChannel(t *testing.T) {
	goals := setupGoals(t)
	_, err := goals.Create("u1", "Run 5k", now.Add(-time.Hour), "gone")
	require.NoError(t, err)
	_, err = goals.Create("u2", "Swim", now.Add(time.Hour), "c1")
	require.NoError(t, err)

	m := metrics.New("test")
	n := &recordingNotifier{channels: map[string]bool{"c1": true}}
	notifications, err := newScanner(goals, n, WithMetrics(m)).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, notifications, 2)
	assert.False(t, notifications[0].Delivered)
	assert.True(t, notifications[1].Delivered)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "c1", n.sent[0].channelID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanNotifications.WithLabelValues(model.NotificationOverdue, metrics.ResultDropped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanNotifications.WithLabelValues(model.NotificationPending, metrics.ResultDelivered)))
}

func TestScanContinuesAfterDeliveryFailure(t *testing.T) {
	goals := setupGoals(t)
	for _, d := range []string{"a", "b"} {
		_, err := goals.Create("u1", d, now.Add(time.Hour), "c1")
		require.NoError(t, err)
	}

	n := &recordingNotifier{channels: map[string]bool{"c1": true}, fail: errors.New("timeout")}
	notifications, err := newScanner(goals, n).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.False(t, notifications[0].Delivered)
	assert.False(t, notifications[1].Delivered)
}

func TestScanIsStableAcrossRuns(t *testing.T) {
	goals := setupGoals(t)
	_, err := goals.Create("u1", "past", now.Add(-time.Hour), "c1")
	require.NoError(t, err)
	_, err = goals.Create("u1", "future", now.Add(time.Hour), "c1")
	require.NoError(t, err)

	type framed struct {
		goalID int64
		kind   string
	}
	frame := func(ns []model.Notification) []framed {
		var out []framed
		for _, n := range ns {
			out = append(out, framed{n.GoalID, n.Kind})
		}
		return out
	}

	n := &recordingNotifier{channels: map[string]bool{"c1": true}}
	s := newScanner(goals, n)

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	second, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, frame(first), frame(second))
	// no dedup: every scan notifies again
	assert.Equal(t, 4, n.count())
}

func TestScanListFailure(t *testing.T) {
	n := &recordingNotifier{}
	_, err := newScanner(failingLister{}, n).Scan(context.Background())
	assert.Error(t, err)
}

func TestRunScansImmediatelyAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	goals := setupGoals(t)
	_, err := goals.Create("u1", "Run 5k", now.Add(-time.Hour), "c1")
	require.NoError(t, err)

	n := &recordingNotifier{channels: map[string]bool{"c1": true}}
	s := New(goals, n, 10*time.Millisecond, WithClock(func() time.Time { return now }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return n.count() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop")
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(setupGoals(t), &recordingNotifier{}, 0)
	assert.Equal(t, DefaultInterval, s.interval)
}
