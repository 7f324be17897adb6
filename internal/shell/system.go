package shell

import (
	"context"
	"net/url"

	"github.com/codeview/cli/internal/session"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
)

// SystemShell opens the endpoint in the default browser. The browser does not report
// page loads back, so password auto-fill is left to `codeview script`.
type SystemShell struct {
	prompter

	// OpenURL defaults to browser.OpenURL
	OpenURL func(url string) error
}

// NewSystemShell returns a shell that hands the endpoint to the default browser.
func NewSystemShell(asker Asker, queue *Queue) *SystemShell {
	return &SystemShell{
		prompter: prompter{asker: asker, queue: queue},
		OpenURL:  browser.OpenURL,
	}
}

func (s *SystemShell) ShowBlank(ctx context.Context) error {
	pterm.Info.Println("No code-server endpoint configured. Run `codeview configure` to set one.")
	return nil
}

func (s *SystemShell) Load(ctx context.Context, endpoint *url.URL) error {
	pterm.Info.Printf("Opening %s in your browser\n", endpoint.Redacted())
	if err := s.OpenURL(endpoint.String()); err != nil {
		pterm.Warning.Printf("Could not open a browser, visit %s manually\n", endpoint.Redacted())
		return err
	}
	return nil
}

func (s *SystemShell) FillAndSubmit(ctx context.Context, cmd session.FillCommand) error {
	pterm.Info.Println("Run `codeview script` and paste the output into the browser console to sign in.")
	return nil
}

func (s *SystemShell) Paint(ctx context.Context, theme session.Theme) error {
	return nil
}

var _ session.Shell = (*SystemShell)(nil)
