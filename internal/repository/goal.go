package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/templui/accountabot/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	// Create assigns goal.ID and persists the goal before returning.
	Create(goal *model.Goal) error
	ByID(goalID int64) (*model.Goal, error)
	// Goals lists every goal in insertion order.
	Goals() ([]*model.Goal, error)
}

// goalRepository keeps goals in memory, optionally mirrored to a JSON file.
type goalRepository struct {
	mu     sync.RWMutex
	goals  []model.Goal
	nextID int64
	file   *jsonFile[model.Goal]
}

func NewMemoryGoalRepository() GoalRepository {
	return &goalRepository{nextID: 1}
}

func NewJSONGoalRepository(path string) (GoalRepository, error) {
	file, err := newJSONFile[model.Goal](path)
	if err != nil {
		return nil, err
	}

	goals, err := file.load()
	if err != nil {
		return nil, err
	}

	r := &goalRepository{goals: goals, nextID: 1, file: file}
	for _, g := range goals {
		if g.ID >= r.nextID {
			r.nextID = g.ID + 1
		}
	}

	return r, nil
}

func (r *goalRepository) Create(goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *goal
	stored.ID = r.nextID

	goals := append(r.goals[:len(r.goals):len(r.goals)], stored)
	if r.file != nil {
		err := r.file.save(goals)
		if err != nil {
			return err
		}
	}

	r.goals = goals
	r.nextID++
	goal.ID = stored.ID
	return nil
}

func (r *goalRepository) ByID(goalID int64) (*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.goals {
		if g.ID == goalID {
			goal := g
			return &goal, nil
		}
	}

	return nil, ErrGoalNotFound
}

func (r *goalRepository) Goals() ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*model.Goal, 0, len(r.goals))
	for _, g := range r.goals {
		goal := g
		goals = append(goals, &goal)
	}

	return goals, nil
}

type sqlGoalRepository struct {
	mu sync.Mutex
	db *sqlx.DB
}

func NewSQLGoalRepository(db *sqlx.DB) GoalRepository {
	return &sqlGoalRepository{db: db}
}

// Create computes the next id inside the insert so ids keep increasing
// across restarts. The mutex serializes writers within the process.
func (r *sqlGoalRepository) Create(goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO goals (id, user_id, description, due_date, channel_id)
	          VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM goals), $1, $2, $3, $4)
	          RETURNING id`

	var id int64
	err := r.db.QueryRow(query,
		goal.UserID,
		goal.Description,
		goal.DueDate,
		goal.ChannelID,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	goal.ID = id
	return nil
}

func (r *sqlGoalRepository) ByID(goalID int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT id, user_id, description, due_date, channel_id FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *sqlGoalRepository) Goals() ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT id, user_id, description, due_date, channel_id FROM goals ORDER BY id ASC`

	err := r.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}
