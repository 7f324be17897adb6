package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/codeview/cli/internal/config"
	"github.com/codeview/cli/internal/profile"
	"github.com/codeview/cli/internal/session"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Metadata describes the build.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var (
	metadata Metadata
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codeview",
	Short: "Open your code-server in a dedicated window",
	Long: `codeview keeps the address of your code-server and, optionally, its password,
and opens it in a dedicated Chrome window. When code-server shows its login page,
the stored password is filled in and submitted for you.

Get started:
  codeview configure
  codeview open`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		debug, _ := cmd.Flags().GetBool("debug")
		if debug || cfg.Debug {
			pterm.EnableDebugMessages()
		}
		pterm.Debug.Printf("Config directory: %s\n", cfg.Dir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug messages")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(m Metadata) {
	metadata = m
	rootCmd.Version = m.Version

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(m.Version)); err != nil {
		os.Exit(1)
	}
}

func newStore(c *config.Config) *profile.Store {
	return profile.NewStore(profile.NewPreferences(c.Dir), profile.NewKeyringSecrets())
}

func fillPolicy(c *config.Config) session.FillPolicy {
	return session.FillPolicy{Interval: c.FillInterval, MaxAttempts: c.FillAttempts}
}
