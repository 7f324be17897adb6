package shell

import (
	"context"
	"net/url"

	"github.com/codeview/cli/internal/profile"
	"github.com/codeview/cli/internal/session"
	"github.com/pterm/pterm"
)

// TerminalShell reports decisions without presenting any content. Commands that
// change the profile use it to tell the user what the next `codeview open` will do.
type TerminalShell struct {
	// Quiet suppresses output, leaving only the recorded decision
	Quiet bool

	Endpoint *url.URL
}

func (t *TerminalShell) ShowBlank(ctx context.Context) error {
	t.Endpoint = nil
	if !t.Quiet {
		pterm.Success.Println("Profile cleared. codeview will show nothing until a new address is saved.")
	}
	return nil
}

func (t *TerminalShell) PromptProfile(ctx context.Context, current profile.Profile) error {
	t.Endpoint = nil
	if !t.Quiet {
		pterm.Warning.Println("No code-server address is configured. Run `codeview configure`.")
	}
	return nil
}

func (t *TerminalShell) Load(ctx context.Context, endpoint *url.URL) error {
	t.Endpoint = endpoint
	if !t.Quiet {
		pterm.Success.Printf("Saved. `codeview open` will load %s\n", endpoint.Redacted())
	}
	return nil
}

func (t *TerminalShell) FillAndSubmit(ctx context.Context, cmd session.FillCommand) error {
	return nil
}

func (t *TerminalShell) Paint(ctx context.Context, theme session.Theme) error {
	return nil
}

var _ session.Shell = (*TerminalShell)(nil)
