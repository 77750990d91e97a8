package service

import (
	"fmt"
	"log/slog"

	"github.com/templui/accountabot/internal/metrics"
	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/repository"
)

type VoteService struct {
	repo     repository.VoteRepository
	goalRepo repository.GoalRepository
	metrics  *metrics.Metrics
}

// Completion is the outcome of checking a goal's votes.
type Completion struct {
	Goal      *model.Goal
	Tally     model.Tally
	Completed bool
}

func NewVoteService(repo repository.VoteRepository, goalRepo repository.GoalRepository, m *metrics.Metrics) *VoteService {
	return &VoteService{
		repo:     repo,
		goalRepo: goalRepo,
		metrics:  m,
	}
}

// Cast records a vote. A later vote by the same user on the same goal
// replaces the earlier one.
func (s *VoteService) Cast(userID string, goalID int64, vote bool) error {
	if userID == "" {
		return ErrEmptyUser
	}

	err := requireGoal(s.goalRepo, goalID)
	if err != nil {
		return err
	}

	err = s.repo.Cast(&model.Vote{UserID: userID, GoalID: goalID, Vote: vote})
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	s.metrics.ObserveVote(vote)
	slog.Debug("vote cast", "goal_id", goalID, "user_id", userID, "vote", vote)
	return nil
}

func (s *VoteService) Tally(goalID int64) (model.Tally, error) {
	return s.repo.Tally(goalID)
}

func (s *VoteService) CheckCompletion(goalID int64) (*Completion, error) {
	goal, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	tally, err := s.repo.Tally(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	return &Completion{
		Goal:      goal,
		Tally:     tally,
		Completed: tally.Completed(),
	}, nil
}
