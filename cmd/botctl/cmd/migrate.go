package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/accountabot/internal/db"
)

var errNoDatabase = errors.New("migrations need STORE_BACKEND=sql")

func migrateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// opening the sql store migrates it
			a, err := s.App(cmd.Context())
			if err != nil {
				return err
			}
			if a.DB == nil {
				return errNoDatabase
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.App(cmd.Context())
			if err != nil {
				return err
			}
			if a.DB == nil {
				return errNoDatabase
			}
			return db.MigrateDown(cmd.Context(), a.DB.DB, a.Cfg.DBDriver)
		},
	})

	return cmd
}
