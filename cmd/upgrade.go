package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/codeview/cli/pkg/update"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dryRun bool

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Aliases: []string{"update"},
	Short:   "Upgrade codeview to the latest version",
	Long: `Upgrade codeview to the latest version.

Supported installation methods:
  - Homebrew (brew)
  - go install

If your installation method cannot be detected, the upgrade command is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be executed without running")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	currentVersion := metadata.Version

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	pterm.Info.Println("Checking for updates...")

	latestTag, releaseURL, err := update.FetchLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	isNewer, err := update.IsNewerVersion(currentVersion, latestTag)
	if err != nil {
		// Development builds have no comparable version
		pterm.Warning.Printf("Could not compare versions (%s vs %s): %v\n", currentVersion, latestTag, err)
		pterm.Info.Println("Proceeding with upgrade...")
	} else if !isNewer {
		pterm.Success.Printf("You are already on the latest version (%s)\n", strings.TrimPrefix(currentVersion, "v"))
		return nil
	} else {
		pterm.Info.Printf("New version available: %s → %s\n", strings.TrimPrefix(currentVersion, "v"), strings.TrimPrefix(latestTag, "v"))
		if releaseURL != "" {
			pterm.Info.Printf("Release notes: %s\n", releaseURL)
		}
	}

	method, binaryPath := update.DetectInstallMethod()
	if method == update.InstallMethodUnknown {
		pterm.Warning.Printf("Could not detect how %s was installed.\n", binaryPath)
		pterm.Info.Printf("To upgrade, run: %s\n", update.SuggestUpgradeCommand())
		return fmt.Errorf("could not detect installation method")
	}

	upgrade := upgradeArgs(method)
	if dryRun {
		pterm.Info.Printf("Would run: %s\n", strings.Join(upgrade, " "))
		return nil
	}

	pterm.Info.Printf("Upgrading via %s...\n", method)
	c := exec.CommandContext(cmd.Context(), upgrade[0], upgrade[1:]...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin
	return c.Run()
}

func upgradeArgs(method update.InstallMethod) []string {
	switch method {
	case update.InstallMethodGo:
		return []string{"go", "install", "github.com/codeview/cli@latest"}
	default:
		return []string{"brew", "upgrade", "codeview"}
	}
}
