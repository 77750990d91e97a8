package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/validation"
)

var (
	ErrEmptyEvidence = errors.New("evidence text is required")
)

type EvidenceService struct {
	repo     repository.EvidenceRepository
	goalRepo repository.GoalRepository
	metrics  *metrics.Metrics
}

func NewEvidenceService(repo repository.EvidenceRepository, goalRepo repository.GoalRepository, m *metrics.Metrics) *EvidenceService {
	return &EvidenceService{
		repo:     repo,
		goalRepo: goalRepo,
		metrics:  m,
	}
}

func (s *EvidenceService) Add(userID string, goalID int64, evidence string) (*model.Evidence, error) {
	if userID == "" {
		return nil, ErrEmptyUser
	}

	evidence, err := validation.Text("evidence", evidence, validation.MaxEvidenceLength)
	if errors.Is(err, validation.ErrRequired) {
		return nil, ErrEmptyEvidence
	}
	if err != nil {
		return nil, err
	}

	err = requireGoal(s.goalRepo, goalID)
	if err != nil {
		return nil, err
	}

	e := &model.Evidence{UserID: userID, GoalID: goalID, Evidence: evidence}
	err = s.repo.Add(e)
	if err != nil {
		return nil, fmt.Errorf("failed to add evidence: %w", err)
	}

	s.metrics.ObserveEvidence()
	slog.Debug("evidence added", "goal_id", goalID, "user_id", userID)
	return e, nil
}

func (s *EvidenceService) ByGoal(goalID int64) ([]*model.Evidence, error) {
	return s.repo.ByGoal(goalID)
}
