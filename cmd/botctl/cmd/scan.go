package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func scanCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one goal scan and send status notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.App(cmd.Context())
			if err != nil {
				return err
			}

			notifications, err := a.Scanner.Scan(cmd.Context())
			if err != nil {
				return err
			}

			if s.asJSON {
				return writeJSON(cmd.OutOrStdout(), notifications)
			}
			for _, n := range notifications {
				status := "sent"
				if !n.Delivered {
					status = "not sent"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", status, n.ChannelID, n.Text)
			}
			return nil
		},
	}
}
