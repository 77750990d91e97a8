package repository

import (
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQL    = "sql"
)

const (
	GoalsFile     = "goals.json"
	VotesFile     = "votes.json"
	EvidencesFile = "evidences.json"
)

type Repositories struct {
	Goals     GoalRepository
	Votes     VoteRepository
	Evidences EvidenceRepository
}

// Open builds the repositories for a backend. dataDir is used by the json
// backend and db by the sql backend; the other argument may be empty.
func Open(backend, dataDir string, db *sqlx.DB) (*Repositories, error) {
	switch backend {
	case BackendMemory:
		return &Repositories{
			Goals:     NewMemoryGoalRepository(),
			Votes:     NewMemoryVoteRepository(),
			Evidences: NewMemoryEvidenceRepository(),
		}, nil

	case BackendJSON:
		goals, err := NewJSONGoalRepository(filepath.Join(dataDir, GoalsFile))
		if err != nil {
			return nil, fmt.Errorf("failed to open goals: %w", err)
		}
		votes, err := NewJSONVoteRepository(filepath.Join(dataDir, VotesFile))
		if err != nil {
			return nil, fmt.Errorf("failed to open votes: %w", err)
		}
		evidences, err := NewJSONEvidenceRepository(filepath.Join(dataDir, EvidencesFile))
		if err != nil {
			return nil, fmt.Errorf("failed to open evidences: %w", err)
		}
		return &Repositories{Goals: goals, Votes: votes, Evidences: evidences}, nil

	case BackendSQL:
		if db == nil {
			return nil, fmt.Errorf("sql backend requires a database connection")
		}
		return &Repositories{
			Goals:     NewSQLGoalRepository(db),
			Votes:     NewSQLVoteRepository(db),
			Evidences: NewSQLEvidenceRepository(db),
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", backend)
}
