package bot

import (
	"fmt"
	"strings"

	"github.com/templui/accountabot/internal/model"
	"github.com/templui/accountabot/internal/service"
)

const listDateLayout = "January 2, 2006"

// Bot routes decoded commands to the goal, vote and evidence services and
// renders a plain text reply.
type Bot struct {
	goals     *service.GoalService
	votes     *service.VoteService
	evidences *service.EvidenceService
}

type Reply struct {
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// GoalSummary pairs a goal with its current tally.
type GoalSummary struct {
	Goal  *model.Goal `json:"goal"`
	Votes model.Tally `json:"votes"`
}

type CompletionResult struct {
	GoalID    int64 `json:"goalId"`
	For       int   `json:"for"`
	Against   int   `json:"against"`
	Completed bool  `json:"completed"`
}

func New(goals *service.GoalService, votes *service.VoteService, evidences *service.EvidenceService) *Bot {
	return &Bot{
		goals:     goals,
		votes:     votes,
		evidences: evidences,
	}
}

// Dispatch runs cmd on behalf of userID. channelID is where the command was
// issued; new goals report their status there.
func (b *Bot) Dispatch(userID, channelID string, cmd Command) (*Reply, error) {
	switch c := cmd.(type) {
	case CreateGoal:
		goal, err := b.goals.Create(userID, c.Description, c.DueDate, channelID)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: fmt.Sprintf("Goal created with ID: %d", goal.ID), Data: goal}, nil

	case CastVote:
		err := b.votes.Cast(userID, c.GoalID, c.Vote)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Text: fmt.Sprintf("Vote recorded for goal %d", c.GoalID),
			Data: model.Vote{UserID: userID, GoalID: c.GoalID, Vote: c.Vote},
		}, nil

	case CheckCompletion:
		completion, err := b.votes.CheckCompletion(c.GoalID)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Text: CheckMessage(completion.Tally),
			Data: CompletionResult{
				GoalID:    c.GoalID,
				For:       completion.Tally.For,
				Against:   completion.Tally.Against,
				Completed: completion.Completed,
			},
		}, nil

	case ListGoals:
		summaries, err := b.GoalSummaries()
		if err != nil {
			return nil, err
		}
		return &Reply{Text: listGoalsMessage(summaries), Data: summaries}, nil

	case AddEvidence:
		evidence, err := b.evidences.Add(userID, c.GoalID, c.Evidence)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: fmt.Sprintf("Evidence added to goal %d", c.GoalID), Data: evidence}, nil

	case ListEvidence:
		evidences, err := b.evidences.ByGoal(c.GoalID)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: listEvidenceMessage(c.GoalID, evidences), Data: evidences}, nil
	}

	return nil, &ParseError{Command: fmt.Sprintf("%T", cmd), Reason: "unsupported command"}
}

// GoalSummaries lists every goal with its tally, in goal listing order.
func (b *Bot) GoalSummaries() ([]GoalSummary, error) {
	goals, err := b.goals.Goals()
	if err != nil {
		return nil, err
	}

	summaries := make([]GoalSummary, 0, len(goals))
	for _, goal := range goals {
		tally, err := b.votes.Tally(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to tally goal %d: %w", goal.ID, err)
		}
		summaries = append(summaries, GoalSummary{Goal: goal, Votes: tally})
	}

	return summaries, nil
}

func CheckMessage(tally model.Tally) string {
	msg := fmt.Sprintf("For: %d, Against: %d", tally.For, tally.Against)
	if tally.Completed() {
		return msg
	}
	return "Vote is not completed. " + msg
}

func listGoalsMessage(summaries []GoalSummary) string {
	if len(summaries) == 0 {
		return "No goals yet."
	}

	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d %s (due %s) For: %d, Against: %d",
			s.Goal.ID, s.Goal.Description, s.Goal.DueDate.Format(listDateLayout), s.Votes.For, s.Votes.Against)
	}
	return b.String()
}

func listEvidenceMessage(goalID int64, evidences []*model.Evidence) string {
	if len(evidences) == 0 {
		return fmt.Sprintf("No evidence for goal %d.", goalID)
	}

	lines := make([]string, 0, len(evidences))
	for _, e := range evidences {
		lines = append(lines, fmt.Sprintf("- %s: %s", e.UserID, e.Evidence))
	}
	return strings.Join(lines, "\n")
}
