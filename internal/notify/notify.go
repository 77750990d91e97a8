package notify

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
)

// Notifier delivers text to an external channel by id. It returns
// ErrChannelNotFound when the channel cannot be resolved.
type Notifier interface {
	Notify(ctx context.Context, channelID, text string) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Every channel resolves. Used in development.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, channelID, text string) error {
	slog.InfoContext(ctx, "notification sent (log mode)", "channel_id", channelID, "text", text)
	return nil
}
