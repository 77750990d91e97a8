package model

import (
	"time"
)

type Goal struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	ChannelID   string    `json:"channelId" db:"channel_id"`
}

// IsOverdue reports whether the due date is at or before now.
func (g *Goal) IsOverdue(now time.Time) bool {
	return !g.DueDate.After(now)
}
