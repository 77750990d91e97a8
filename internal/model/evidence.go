package model

type Evidence struct {
	UserID   string `json:"userId" db:"user_id"`
	GoalID   int64  `json:"goalId" db:"goal_id"`
	Evidence string `json:"evidence" db:"evidence"`
}
