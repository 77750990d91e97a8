package repository

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/templui/accountabot/internal/model"
)

// EvidenceRepository is an append-only log of evidence per goal.
type EvidenceRepository interface {
	Add(evidence *model.Evidence) error
	// ByGoal returns the goal's evidence in insertion order, or an empty
	// slice when there is none.
	ByGoal(goalID int64) ([]*model.Evidence, error)
}

type evidenceRepository struct {
	mu        sync.RWMutex
	evidences []model.Evidence
	file      *jsonFile[model.Evidence]
}

func NewMemoryEvidenceRepository() EvidenceRepository {
	return &evidenceRepository{}
}

func NewJSONEvidenceRepository(path string) (EvidenceRepository, error) {
	file, err := newJSONFile[model.Evidence](path)
	if err != nil {
		return nil, err
	}

	evidences, err := file.load()
	if err != nil {
		return nil, err
	}

	return &evidenceRepository{evidences: evidences, file: file}, nil
}

func (r *evidenceRepository) Add(evidence *model.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evidences := append(r.evidences[:len(r.evidences):len(r.evidences)], *evidence)
	if r.file != nil {
		err := r.file.save(evidences)
		if err != nil {
			return err
		}
	}

	r.evidences = evidences
	return nil
}

func (r *evidenceRepository) ByGoal(goalID int64) ([]*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evidences := []*model.Evidence{}
	for _, e := range r.evidences {
		if e.GoalID == goalID {
			evidence := e
			evidences = append(evidences, &evidence)
		}
	}

	return evidences, nil
}

type sqlEvidenceRepository struct {
	mu sync.Mutex
	db *sqlx.DB
}

func NewSQLEvidenceRepository(db *sqlx.DB) EvidenceRepository {
	return &sqlEvidenceRepository{db: db}
}

func (r *sqlEvidenceRepository) Add(evidence *model.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO evidences (id, goal_id, user_id, evidence)
	          VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM evidences), $1, $2, $3)`

	_, err := r.db.Exec(query, evidence.GoalID, evidence.UserID, evidence.Evidence)
	if err != nil {
		return fmt.Errorf("failed to add evidence: %w", err)
	}

	return nil
}

func (r *sqlEvidenceRepository) ByGoal(goalID int64) ([]*model.Evidence, error) {
	evidences := []*model.Evidence{}
	query := `SELECT user_id, goal_id, evidence FROM evidences WHERE goal_id = $1 ORDER BY id ASC`

	err := r.db.Select(&evidences, query, goalID)
	if err != nil {
		return nil, err
	}

	return evidences, nil
}
