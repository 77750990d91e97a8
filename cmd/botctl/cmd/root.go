package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/accountabot/internal/app"
	"github.com/templui/accountabot/internal/bot"
	"github.com/templui/accountabot/internal/config"
	"github.com/templui/accountabot/internal/logger"
)

// Opener builds the app a command runs against.
type Opener func(ctx context.Context) (*app.App, error)

// OpenApp loads configuration from the environment. Logs go to stderr so
// replies can be piped.
func OpenApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.InitWriter(os.Stderr, cfg.IsDevelopment(), "")
	return app.New(ctx, cfg)
}

type session struct {
	open    Opener
	app     *app.App
	user    string
	channel string
	asJSON  bool
}

// RootCmd returns the command tree and a func that closes the app opened by
// whichever command ran. Call it after Execute, whether or not it failed.
func RootCmd(open Opener) (*cobra.Command, func() error) {
	s := &session{open: open}

	rootCmd := &cobra.Command{
		Use:          "botctl",
		Short:        "Run accountability bot commands against the configured store",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.user, "user", defaultUser(), "user issuing the command")
	flags.StringVar(&s.channel, "channel", "cli", "channel the command is issued in")
	flags.BoolVar(&s.asJSON, "json", false, "print replies as JSON")

	rootCmd.AddCommand(goalCmd(s))
	rootCmd.AddCommand(voteCmd(s))
	rootCmd.AddCommand(checkCmd(s))
	rootCmd.AddCommand(listCmd(s))
	rootCmd.AddCommand(evidenceCmd(s))
	rootCmd.AddCommand(evidencesCmd(s))
	rootCmd.AddCommand(scanCmd(s))
	rootCmd.AddCommand(migrateCmd(s))

	return rootCmd, s.close
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}

func (s *session) App(ctx context.Context) (*app.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	a, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open app: %w", err)
	}
	s.app = a
	return a, nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// dispatch decodes a bot command exactly as the HTTP endpoint does and
// prints the reply.
func (s *session) dispatch(cmd *cobra.Command, name string, args map[string]string) error {
	command, err := bot.Decode(name, args)
	if err != nil {
		return err
	}

	a, err := s.App(cmd.Context())
	if err != nil {
		return err
	}

	reply, err := a.Bot.Dispatch(s.user, s.channel, command)
	if err != nil {
		return err
	}

	if s.asJSON {
		return writeJSON(cmd.OutOrStdout(), reply)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
