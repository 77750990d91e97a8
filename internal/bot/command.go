package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	CommandGoal      = "goal"
	CommandVote      = "vote"
	CommandCheck     = "check"
	CommandListGoals = "listgoals"
	CommandEvidence  = "evidence"
	CommandEvidences = "evidences"
)

// aliases maps the chat command names registered on the platform.
var aliases = map[string]string{
	"handlegoalcommand":  CommandGoal,
	"handlevotecommand":  CommandVote,
	"handlecheckcommand": CommandCheck,
	"list":               CommandListGoals,
	"addevidence":        CommandEvidence,
	"getevidences":       CommandEvidences,
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Command is a decoded user action. The concrete types below are the only
// implementations.
type Command interface {
	Name() string
	command()
}

type CreateGoal struct {
	Description string
	DueDate     time.Time
}

type CastVote struct {
	GoalID int64
	Vote   bool
}

type CheckCompletion struct {
	GoalID int64
}

type ListGoals struct{}

type AddEvidence struct {
	GoalID   int64
	Evidence string
}

type ListEvidence struct {
	GoalID int64
}

func (CreateGoal) Name() string      { return CommandGoal }
func (CastVote) Name() string        { return CommandVote }
func (CheckCompletion) Name() string { return CommandCheck }
func (ListGoals) Name() string       { return CommandListGoals }
func (AddEvidence) Name() string     { return CommandEvidence }
func (ListEvidence) Name() string    { return CommandEvidences }

func (CreateGoal) command()      {}
func (CastVote) command()        {}
func (CheckCompletion) command() {}
func (ListGoals) command()       {}
func (AddEvidence) command()     {}
func (ListEvidence) command()    {}

// ParseError rejects a command at the boundary, before any service runs.
type ParseError struct {
	Command string
	Arg     string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: argument %q %s", e.Command, e.Arg, e.Reason)
}

// Decode turns a raw command name and its string arguments into a Command.
// Argument names are matched case-insensitively.
func Decode(name string, args map[string]string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	a := arguments{command: name, values: make(map[string]string, len(args))}
	for k, v := range args {
		a.values[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	switch name {
	case CommandGoal:
		description, err := a.text("goal")
		if err != nil {
			return nil, err
		}
		due, err := a.date("duedate")
		if err != nil {
			return nil, err
		}
		return CreateGoal{Description: description, DueDate: due}, nil

	case CommandVote:
		goalID, err := a.goalID()
		if err != nil {
			return nil, err
		}
		vote, err := a.boolean("vote")
		if err != nil {
			return nil, err
		}
		return CastVote{GoalID: goalID, Vote: vote}, nil

	case CommandCheck:
		goalID, err := a.goalID()
		if err != nil {
			return nil, err
		}
		return CheckCompletion{GoalID: goalID}, nil

	case CommandListGoals:
		return ListGoals{}, nil

	case CommandEvidence:
		goalID, err := a.goalID()
		if err != nil {
			return nil, err
		}
		evidence, err := a.text("evidence")
		if err != nil {
			return nil, err
		}
		return AddEvidence{GoalID: goalID, Evidence: evidence}, nil

	case CommandEvidences:
		goalID, err := a.goalID()
		if err != nil {
			return nil, err
		}
		return ListEvidence{GoalID: goalID}, nil
	}

	return nil, &ParseError{Command: name, Reason: "unknown command"}
}

type arguments struct {
	command string
	values  map[string]string
}

func (a arguments) fail(arg, reason string) error {
	return &ParseError{Command: a.command, Arg: arg, Reason: reason}
}

func (a arguments) text(key string) (string, error) {
	v := a.values[key]
	if v == "" {
		return "", a.fail(key, "is required")
	}
	return v, nil
}

func (a arguments) goalID() (int64, error) {
	v, err := a.text("goalid")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, a.fail("goalid", "must be a positive integer")
	}
	return id, nil
}

func (a arguments) boolean(key string) (bool, error) {
	v, err := a.text(key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "yes", "y", "for":
		return true, nil
	case "no", "n", "against":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, a.fail(key, "must be true or false")
	}
	return b, nil
}

// date accepts RFC 3339 or a plain date; plain dates are midnight UTC.
func (a arguments) date(key string) (time.Time, error) {
	v, err := a.text(key)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, a.fail(key, "must be a date like 2006-01-02")
}
