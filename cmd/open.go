package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codeview/cli/internal/config"
	"github.com/codeview/cli/internal/session"
	"github.com/codeview/cli/internal/shell"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open code-server",
	Long: `Open the stored code-server address.

With the default Chrome shell a dedicated window is opened and the stored password
is filled in on the login page. Send SIGHUP to reload. Closing the window or
pressing Ctrl+C exits.

Set CODEVIEW_SHELL=system to use your default browser instead.`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	openCmd.Flags().String("shell", "", "Override CODEVIEW_SHELL (chrome or system)")
	_ = openCmd.RegisterFlagCompletionFunc("shell", cobra.FixedCompletions(
		[]string{config.ShellChrome, config.ShellSystem}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	shellKind, _ := cmd.Flags().GetString("shell")
	if shellKind == "" {
		shellKind = cfg.Shell
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newStore(cfg)
	queue := shell.NewQueue(shell.DefaultQueueSize)
	form := shell.Form{Secret: store.Secret}

	switch shellKind {
	case config.ShellSystem:
		b := session.NewBootstrapper(store, shell.NewSystemShell(form, queue), fillPolicy(cfg))
		queue.Post(session.Activated{})
		return drain(ctx, b, queue)
	case config.ShellChrome:
		pterm.Info.Println("Starting Chrome...")
		chrome, err := shell.NewChromeShell(ctx, shell.ChromeOptions{
			ProfileDir: cfg.ChromeProfileDir(),
			ExecPath:   cfg.ChromePath,
		}, form, queue)
		if err != nil {
			return err
		}
		defer chrome.Close()

		go func() {
			<-chrome.Done()
			stop()
		}()
		shell.WatchReloadSignal(ctx, queue)

		b := session.NewBootstrapper(store, chrome, fillPolicy(cfg))
		queue.Post(session.Activated{})
		if err := b.Run(ctx, queue.Events()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown shell %q: use %s or %s", shellKind, config.ShellChrome, config.ShellSystem)
	}
}

// drain handles queued events until none are left. The system browser reports nothing
// back, so there is no reason to keep running once the endpoint was handed over.
func drain(ctx context.Context, b *session.Bootstrapper, q *shell.Queue) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-q.Events():
			if err := b.Handle(ctx, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
