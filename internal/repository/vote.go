package repository

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/templui/accountabot/internal/model"
)

type VoteRepository interface {
	// Cast records the vote, replacing any earlier vote by the same user on
	// the same goal.
	Cast(vote *model.Vote) error
	Tally(goalID int64) (model.Tally, error)
	Votes(goalID int64) ([]*model.Vote, error)
}

type voteRepository struct {
	mu    sync.RWMutex
	votes []model.Vote
	file  *jsonFile[model.Vote]
}

func NewMemoryVoteRepository() VoteRepository {
	return &voteRepository{}
}

func NewJSONVoteRepository(path string) (VoteRepository, error) {
	file, err := newJSONFile[model.Vote](path)
	if err != nil {
		return nil, err
	}

	votes, err := file.load()
	if err != nil {
		return nil, err
	}

	return &voteRepository{votes: dedupeVotes(votes), file: file}, nil
}

// dedupeVotes folds files written by older versions that appended every
// cast. The last vote per (goal, user) wins and keeps the first position.
func dedupeVotes(votes []model.Vote) []model.Vote {
	type key struct {
		goalID int64
		userID string
	}

	index := make(map[key]int, len(votes))
	result := make([]model.Vote, 0, len(votes))
	for _, v := range votes {
		k := key{v.GoalID, v.UserID}
		if i, ok := index[k]; ok {
			result[i].Vote = v.Vote
			continue
		}
		index[k] = len(result)
		result = append(result, v)
	}

	return result
}

func (r *voteRepository) Cast(vote *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	votes := make([]model.Vote, len(r.votes), len(r.votes)+1)
	copy(votes, r.votes)

	replaced := false
	for i := range votes {
		if votes[i].GoalID == vote.GoalID && votes[i].UserID == vote.UserID {
			votes[i].Vote = vote.Vote
			replaced = true
			break
		}
	}
	if !replaced {
		votes = append(votes, *vote)
	}

	if r.file != nil {
		err := r.file.save(votes)
		if err != nil {
			return err
		}
	}

	r.votes = votes
	return nil
}

func (r *voteRepository) Tally(goalID int64) (model.Tally, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tally model.Tally
	for _, v := range r.votes {
		if v.GoalID != goalID {
			continue
		}
		if v.Vote {
			tally.For++
		} else {
			tally.Against++
		}
	}

	return tally, nil
}

func (r *voteRepository) Votes(goalID int64) ([]*model.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	votes := []*model.Vote{}
	for _, v := range r.votes {
		if v.GoalID == goalID {
			vote := v
			votes = append(votes, &vote)
		}
	}

	return votes, nil
}

type sqlVoteRepository struct {
	mu sync.Mutex
	db *sqlx.DB
}

func NewSQLVoteRepository(db *sqlx.DB) VoteRepository {
	return &sqlVoteRepository{db: db}
}

func (r *sqlVoteRepository) Cast(vote *model.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO votes (id, goal_id, user_id, vote)
	          VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM votes), $1, $2, $3)
	          ON CONFLICT (goal_id, user_id) DO UPDATE SET vote = excluded.vote`

	_, err := r.db.Exec(query, vote.GoalID, vote.UserID, vote.Vote)
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	return nil
}

func (r *sqlVoteRepository) Tally(goalID int64) (model.Tally, error) {
	query := `SELECT
	            COALESCE(SUM(CASE WHEN vote THEN 1 ELSE 0 END), 0),
	            COALESCE(SUM(CASE WHEN vote THEN 0 ELSE 1 END), 0)
	          FROM votes WHERE goal_id = $1`

	var tally model.Tally
	err := r.db.QueryRow(query, goalID).Scan(&tally.For, &tally.Against)
	if err != nil {
		return model.Tally{}, err
	}

	return tally, nil
}

func (r *sqlVoteRepository) Votes(goalID int64) ([]*model.Vote, error) {
	votes := []*model.Vote{}
	query := `SELECT user_id, goal_id, vote FROM votes WHERE goal_id = $1 ORDER BY id ASC`

	err := r.db.Select(&votes, query, goalID)
	if err != nil {
		return nil, err
	}

	return votes, nil
}
