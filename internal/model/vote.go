package model

// Vote is one user's judgment on whether a goal was met.
// A (GoalID, UserID) pair holds at most one vote.
type Vote struct {
	UserID string `json:"userId" db:"user_id"`
	GoalID int64  `json:"goalId" db:"goal_id"`
	Vote   bool   `json:"vote" db:"vote"`
}

// Tally is the deduplicated count of votes on a goal.
type Tally struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

// Completed applies the completion rule: strictly more votes for than against.
// Ties are not completed and there is no quorum.
func (t Tally) Completed() bool {
	return t.For > t.Against
}
