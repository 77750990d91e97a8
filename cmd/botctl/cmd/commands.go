package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func goalCmd(s *session) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "goal <description...>",
		Short: "Create a goal in the current channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "goal", map[string]string{
				"goal":    strings.Join(args, " "),
				"duedate": due,
			})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (2006-01-02 or RFC 3339)")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func voteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <goal-id> <true|false>",
		Short: "Vote on whether a goal was completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "vote", map[string]string{"goalid": args[0], "vote": args[1]})
		},
	}
}

func checkCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "check <goal-id>",
		Short: "Show the vote tally for a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "check", map[string]string{"goalid": args[0]})
		},
	}
}

func listCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all goals with their tallies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "listgoals", nil)
		},
	}
}

func evidenceCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "evidence <goal-id> <text...>",
		Short: "Attach evidence to a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "evidence", map[string]string{
				"goalid":   args[0],
				"evidence": strings.Join(args[1:], " "),
			})
		},
	}
}

func evidencesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "evidences <goal-id>",
		Short: "List evidence submitted for a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatch(cmd, "evidences", map[string]string{"goalid": args[0]})
		},
	}
}
