package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/repository"
	"github.com/templui/accountabot/internal/validation"
)

var (
	ErrEmptyUser            = errors.New("user id is required")
	ErrEmptyDescription     = errors.New("goal description is required")
	ErrEmptyChannel         = errors.New("goal channel is required")
	ErrInvalidDueDate       = errors.New("goal due date is required")
	ErrInvalidGoalReference = errors.New("referenced goal does not exist")
)

type GoalService struct {
	repo    repository.GoalRepository
	metrics *metrics.Metrics
}

func NewGoalService(repo repository.GoalRepository, m *metrics.Metrics) *GoalService {
	return &GoalService{
		repo:    repo,
		metrics: m,
	}
}

func (s *GoalService) Create(userID, description string, dueDate time.Time, channelID string) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrEmptyUser
	}

	channelID = strings.TrimSpace(channelID)

	description, err := validation.Text("goal description", description, validation.MaxDescriptionLength)
	switch {
	case errors.Is(err, validation.ErrRequired):
		return nil, ErrEmptyDescription
	case err != nil:
		return nil, err
	case channelID == "":
		return nil, ErrEmptyChannel
	case dueDate.IsZero():
		return nil, ErrInvalidDueDate
	}

	goal := &model.Goal{
		UserID:      userID,
		Description: description,
		DueDate:     dueDate,
		ChannelID:   channelID,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.metrics.ObserveGoalCreated()
	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID, "due_date", dueDate)
	return goal, nil
}

func (s *GoalService) ByID(goalID int64) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

func (s *GoalService) Goals() ([]*model.Goal, error) {
	return s.repo.Goals()
}

// requireGoal maps a missing goal to ErrInvalidGoalReference for callers
// that attach data to a goal rather than fetch it.
func requireGoal(repo repository.GoalRepository, goalID int64) error {
	_, err := repo.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return fmt.Errorf("%w: %d", ErrInvalidGoalReference, goalID)
	}
	return err
}
