package model

import "time"

const (
	NotificationPending = "PENDING"
	NotificationOverdue = "OVERDUE"
)

// Notification is one status message produced by a goal scan.
type Notification struct {
	GoalID      int64
	ChannelID   string
	Kind        string
	Description string
	DueDate     time.Time
	Text        string
	Delivered   bool
}
