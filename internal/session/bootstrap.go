package session

import (
	"context"
	"fmt"
	"net/url"

	"github.com/codeview/cli/internal/profile"
	"github.com/pterm/pterm"
)

// ProfileStore defines the subset of the profile store that the Bootstrapper uses.
type ProfileStore interface {
	EndpointReader
	Secret() (string, bool)
	SetEndpoint(raw string) error
	SetSecret(raw string) error
	Clear() error
	Snapshot() profile.Profile
}

// Shell presents the Bootstrapper's decisions.
type Shell interface {
	// ShowBlank stops any content and shows nothing.
	ShowBlank(ctx context.Context) error
	// PromptProfile asks the user for a profile, prefilled with current.
	// The shell reports the answer as a ProfileSubmitted event.
	PromptProfile(ctx context.Context, current profile.Profile) error
	// Load shows the endpoint's content.
	Load(ctx context.Context, endpoint *url.URL) error
	// FillAndSubmit fills the login form's password field once and submits it.
	FillAndSubmit(ctx context.Context, cmd FillCommand) error
	// Paint colors the area around the content.
	Paint(ctx context.Context, theme Theme) error
}

// Bootstrapper turns shell events into presentation decisions. It is not safe for
// concurrent use; Run serializes events onto a single goroutine.
type Bootstrapper struct {
	store  ProfileStore
	shell  Shell
	policy FillPolicy

	state State
	// filled is set once the password was handed to the shell for the current login page
	filled bool
}

// NewBootstrapper returns a Bootstrapper in the Idle state.
func NewBootstrapper(store ProfileStore, shell Shell, policy FillPolicy) *Bootstrapper {
	if policy.Interval <= 0 || policy.MaxAttempts <= 0 {
		policy = DefaultFillPolicy
	}
	return &Bootstrapper{
		store:  store,
		shell:  shell,
		policy: policy,
		state:  StateIdle,
	}
}

// State returns what the shell was last told to present.
func (b *Bootstrapper) State() State {
	return b.state
}

// Handle processes a single event.
func (b *Bootstrapper) Handle(ctx context.Context, ev Event) error {
	pterm.Debug.Printf("Session event: %s (state %s)\n", ev.Name(), b.state)

	switch e := ev.(type) {
	case Activated, ReloadRequested:
		return b.apply(ctx, Decide(b.store, false))
	case ProfileSubmitted:
		if err := b.store.SetEndpoint(e.Endpoint); err != nil {
			return err
		}
		if err := b.store.SetSecret(e.Secret); err != nil {
			return err
		}
		return b.apply(ctx, Decide(b.store, true))
	case ProfileCleared:
		if err := b.store.Clear(); err != nil {
			return err
		}
		return b.apply(ctx, Decide(b.store, true))
	case ContentLoaded:
		return b.contentLoaded(ctx, e.Location)
	default:
		return fmt.Errorf("unknown session event %T", ev)
	}
}

// Run handles events until ctx is done or events is closed. Failures of a single
// event are reported and do not stop the loop.
func (b *Bootstrapper) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.Handle(ctx, ev); err != nil {
				pterm.Warning.Printf("Could not handle %s: %v\n", ev.Name(), err)
			}
		}
	}
}

func (b *Bootstrapper) apply(ctx context.Context, d Decision) error {
	b.state = d.State
	switch d.State {
	case StateLoaded:
		b.filled = false
		return b.shell.Load(ctx, d.Endpoint)
	case StateProfilePrompt:
		return b.shell.PromptProfile(ctx, b.store.Snapshot())
	default:
		return b.shell.ShowBlank(ctx)
	}
}

func (b *Bootstrapper) contentLoaded(ctx context.Context, location string) error {
	u, err := url.Parse(location)
	if err != nil {
		pterm.Debug.Printf("Ignoring load of unparsable location: %v\n", err)
		return nil
	}

	if err := b.shell.Paint(ctx, ThemeFor(u)); err != nil {
		return err
	}

	if b.state != StateLoaded {
		return nil
	}
	if !IsLoginPage(u) {
		b.filled = false
		return nil
	}
	// A second login page after a fill means the password was rejected
	if b.filled {
		pterm.Debug.Println("Login page shown again after auto-fill, not resubmitting")
		return nil
	}
	secret, ok := b.store.Secret()
	if !ok {
		return nil
	}
	b.filled = true
	return b.shell.FillAndSubmit(ctx, NewFillCommand(secret, b.policy))
}
