package shell

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/codeview/cli/internal/session"
	"github.com/pterm/pterm"
)

const blankPage = "about:blank"

// ChromeOptions configures the Chrome window.
type ChromeOptions struct {
	// ProfileDir is Chrome's user-data directory, kept separate from the user's browser
	ProfileDir string
	// ExecPath overrides Chrome discovery when set
	ExecPath string
}

// ChromeShell shows the endpoint in a Chrome app window and reports page loads.
type ChromeShell struct {
	prompter

	browserCtx context.Context
	cancel     context.CancelFunc

	mu         sync.Mutex
	location   string
	cancelFill context.CancelFunc
}

// NewChromeShell launches Chrome. Close must be called to shut it down.
func NewChromeShell(ctx context.Context, opts ChromeOptions, asker Asker, queue *Queue) (*ChromeShell, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.UserDataDir(opts.ProfileDir),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", false),
		chromedp.Flag("app", blankPage),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
		chromedp.WindowSize(1440, 900),
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &ChromeShell{
		prompter:   prompter{asker: asker, queue: queue},
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}

	// An empty Run starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to start Chrome: %w", err)
	}
	chromedp.ListenTarget(browserCtx, s.onEvent)

	return s, nil
}

// Done is closed when the window is gone.
func (s *ChromeShell) Done() <-chan struct{} {
	return s.browserCtx.Done()
}

// Close shuts Chrome down.
func (s *ChromeShell) Close() {
	s.stopFill()
	s.cancel()
}

func (s *ChromeShell) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *page.EventFrameNavigated:
		if e.Frame.ParentID != "" {
			return
		}
		s.mu.Lock()
		s.location = e.Frame.URL + e.Frame.URLFragment
		s.mu.Unlock()
		// The page a pending fill was polling is gone
		s.stopFill()
	case *page.EventLoadEventFired:
		s.mu.Lock()
		loc := s.location
		s.mu.Unlock()
		if loc != "" {
			s.queue.Post(session.ContentLoaded{Location: loc})
		}
	}
}

func (s *ChromeShell) ShowBlank(ctx context.Context) error {
	s.stopFill()
	return chromedp.Run(s.browserCtx, chromedp.Navigate(blankPage))
}

func (s *ChromeShell) Load(ctx context.Context, endpoint *url.URL) error {
	s.stopFill()
	pterm.Info.Printf("Opening %s\n", endpoint.Redacted())
	return chromedp.Run(s.browserCtx, chromedp.Navigate(endpoint.String()))
}

// fillGrace leaves room for the final set-value and click after the last poll.
const fillGrace = time.Second

// FillAndSubmit polls for the password field in the background. Polling ends when the
// field is found, the policy's attempts run out, or the page navigates away.
func (s *ChromeShell) FillAndSubmit(ctx context.Context, cmd session.FillCommand) error {
	fillCtx, cancel := context.WithTimeout(s.browserCtx, fillTimeout(cmd.Policy))

	s.mu.Lock()
	if s.cancelFill != nil {
		s.cancelFill()
	}
	s.cancelFill = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		if err := fillPassword(fillCtx, cmd); err != nil {
			pterm.Debug.Printf("Password auto-fill stopped: %v\n", err)
			return
		}
		pterm.Debug.Println("Password auto-fill submitted")
	}()
	return nil
}

func fillTimeout(policy session.FillPolicy) time.Duration {
	d := policy.Timeout()
	if d > session.MaxTimeout-fillGrace {
		return session.MaxTimeout
	}
	return d + fillGrace
}

func (s *ChromeShell) stopFill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelFill != nil {
		s.cancelFill()
		s.cancelFill = nil
	}
}

func fillPassword(ctx context.Context, cmd session.FillCommand) error {
	find := func(ctx context.Context) (bool, error) {
		var nodes []*cdp.Node
		if err := chromedp.Run(ctx, chromedp.Nodes(cmd.PasswordSelector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
			return false, err
		}
		return len(nodes) > 0, nil
	}
	if err := pollUntil(ctx, cmd.Policy, find); err != nil {
		return err
	}
	return chromedp.Run(ctx,
		chromedp.SetValue(cmd.PasswordSelector, cmd.Secret, chromedp.ByQuery),
		chromedp.Click(cmd.SubmitSelector, chromedp.ByQuery),
	)
}

// pollUntil calls find once per interval until it reports true, it fails, the
// policy's attempts run out, or ctx is done.
func pollUntil(ctx context.Context, policy session.FillPolicy, find func(ctx context.Context) (bool, error)) error {
	if policy.Interval <= 0 || policy.MaxAttempts <= 0 {
		policy = session.DefaultFillPolicy
	}
	ticker := time.NewTicker(policy.Interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		found, err := find(ctx)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return fmt.Errorf("password field not found after %d attempts", policy.MaxAttempts)
}

// Paint sets the color Chrome shows behind the page.
func (s *ChromeShell) Paint(ctx context.Context, theme session.Theme) error {
	override := emulation.SetDefaultBackgroundColorOverride()
	if theme.Set {
		override = override.WithColor(&cdp.RGBA{
			R: int64(theme.Color.R),
			G: int64(theme.Color.G),
			B: int64(theme.Color.B),
			A: 1,
		})
	}
	return chromedp.Run(s.browserCtx, override)
}

var _ session.Shell = (*ChromeShell)(nil)
