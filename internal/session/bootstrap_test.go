package session

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/codeview/cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBootstrapper() (*Bootstrapper, *FakeStore, *FakeShell) {
	store := &FakeStore{}
	shell := &FakeShell{}
	return NewBootstrapper(store, shell, DefaultFillPolicy), store, shell
}

func TestDecide(t *testing.T) {
	configured := &FakeStore{}
	require.NoError(t, configured.SetEndpoint("https://example.com"))
	empty := &FakeStore{}

	tests := []struct {
		name  string
		store *FakeStore
		stop  bool
		want  State
	}{
		{"configured", configured, false, StateLoaded},
		{"configured after stop", configured, true, StateLoaded},
		{"first run", empty, false, StateProfilePrompt},
		{"cleared", empty, true, StateIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.store, tt.stop)
			assert.Equal(t, tt.want, d.State)
			if tt.want == StateLoaded {
				require.NotNil(t, d.Endpoint)
				assert.Equal(t, "https://example.com", d.Endpoint.String())
			} else {
				assert.Nil(t, d.Endpoint)
			}
		})
	}
}

func TestFreshInstallPromptsForProfile(t *testing.T) {
	b, _, shell := newTestBootstrapper()

	require.NoError(t, b.Handle(context.Background(), Activated{}))

	assert.Equal(t, StateProfilePrompt, b.State())
	assert.Equal(t, []string{"prompt"}, shell.Calls)
	assert.Equal(t, profile.Profile{}, shell.Prompts[0])
}

func TestSubmitProfileLoadsEndpoint(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ProfileSubmitted{Endpoint: "https://example.com", Secret: "hunter2"}))
	assert.True(t, store.HasEndpoint())
	secret, ok := store.Secret()
	require.True(t, ok)
	assert.Equal(t, "hunter2", secret)
	assert.Equal(t, StateLoaded, b.State())

	require.NoError(t, b.Handle(ctx, Activated{}))
	assert.Equal(t, StateLoaded, b.State())
	assert.Equal(t, []string{"https://example.com", "https://example.com"}, shell.Loaded)
}

func TestSubmitBlankEndpointGoesIdle(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	ctx := context.Background()
	require.NoError(t, store.SetEndpoint("https://example.com"))

	require.NoError(t, b.Handle(ctx, ProfileSubmitted{Endpoint: "", Secret: ""}))

	assert.False(t, store.HasEndpoint())
	assert.Equal(t, StateIdle, b.State())
	assert.Equal(t, []string{"blank"}, shell.Calls)

	// A later plain activation asks for a profile again
	require.NoError(t, b.Handle(ctx, Activated{}))
	assert.Equal(t, StateProfilePrompt, b.State())
}

func TestProfileClearedGoesIdle(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	require.NoError(t, store.SetEndpoint("https://example.com"))
	require.NoError(t, store.SetSecret("hunter2"))

	require.NoError(t, b.Handle(context.Background(), ProfileCleared{}))

	assert.Equal(t, StateIdle, b.State())
	assert.False(t, store.HasEndpoint())
	_, ok := store.Secret()
	assert.False(t, ok)
	assert.Equal(t, []string{"blank"}, shell.Calls)
}

func TestReloadReevaluatesProfile(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ReloadRequested{}))
	assert.Equal(t, StateProfilePrompt, b.State())

	require.NoError(t, store.SetEndpoint("http://localhost:8080"))
	require.NoError(t, b.Handle(ctx, ReloadRequested{}))
	assert.Equal(t, StateLoaded, b.State())
	assert.Equal(t, []string{"http://localhost:8080"}, shell.Loaded)
}

func TestPromptIsPrefilledWithCurrentProfile(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	require.NoError(t, store.SetSecret("hunter2"))

	require.NoError(t, b.Handle(context.Background(), Activated{}))

	require.Len(t, shell.Prompts, 1)
	assert.Equal(t, profile.Profile{HasSecret: true}, shell.Prompts[0])
}

func loadedBootstrapper(t *testing.T, secret string) (*Bootstrapper, *FakeShell) {
	t.Helper()
	b, store, shell := newTestBootstrapper()
	require.NoError(t, store.SetEndpoint("https://example.com"))
	require.NoError(t, store.SetSecret(secret))
	require.NoError(t, b.Handle(context.Background(), Activated{}))
	return b, shell
}

func TestLoginPageFillsSecret(t *testing.T) {
	b, shell := loadedBootstrapper(t, "hunter2")

	require.NoError(t, b.Handle(context.Background(), ContentLoaded{Location: "https://example.com/login"}))

	require.Len(t, shell.Fills, 1)
	cmd := shell.Fills[0]
	assert.Equal(t, "hunter2", cmd.Secret)
	assert.Equal(t, "hunter2", EscapeSecret(cmd.Secret))
	assert.Equal(t, PasswordSelector, cmd.PasswordSelector)
	assert.Equal(t, SubmitSelector, cmd.SubmitSelector)
	assert.Equal(t, DefaultFillPolicy, cmd.Policy)
}

func TestLoginPageWithoutSecretDoesNotFill(t *testing.T) {
	b, shell := loadedBootstrapper(t, "")

	require.NoError(t, b.Handle(context.Background(), ContentLoaded{Location: "https://example.com/login"}))

	assert.Empty(t, shell.Fills)
}

func TestOtherPagesDoNotFill(t *testing.T) {
	b, shell := loadedBootstrapper(t, "hunter2")
	ctx := context.Background()

	for _, loc := range []string{"https://example.com/", "https://example.com/login-help", "https://example.com/?folder=/login"} {
		require.NoError(t, b.Handle(ctx, ContentLoaded{Location: loc}))
	}

	assert.Empty(t, shell.Fills)
}

func TestRejectedPasswordIsNotResubmitted(t *testing.T) {
	b, shell := loadedBootstrapper(t, "wrong")
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login?to=%2F"}))

	assert.Len(t, shell.Fills, 1)
}

func TestFillRearmsAfterLeavingLogin(t *testing.T) {
	b, shell := loadedBootstrapper(t, "hunter2")
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/"}))
	// Session expired, back at login
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))

	assert.Len(t, shell.Fills, 2)
}

func TestFillRearmsOnReload(t *testing.T) {
	b, shell := loadedBootstrapper(t, "hunter2")
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))
	require.NoError(t, b.Handle(ctx, ReloadRequested{}))
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))

	assert.Len(t, shell.Fills, 2)
}

func TestLoginPageIgnoredWhenNotLoaded(t *testing.T) {
	b, store, shell := newTestBootstrapper()
	require.NoError(t, store.SetSecret("hunter2"))
	require.NoError(t, b.Handle(context.Background(), Activated{}))

	require.NoError(t, b.Handle(context.Background(), ContentLoaded{Location: "https://example.com/login"}))

	assert.Empty(t, shell.Fills)
}

func TestContentLoadedPaintsTheme(t *testing.T) {
	b, shell := loadedBootstrapper(t, "")
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/login"}))
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "https://example.com/"}))
	require.NoError(t, b.Handle(ctx, ContentLoaded{Location: "about:blank"}))

	assert.Equal(t, []Theme{
		{Color: LoginColor, Set: true},
		{Color: AccentColor, Set: true},
		ThemeNone,
	}, shell.Themes)
}

func TestShellErrorIsReturned(t *testing.T) {
	store := &FakeStore{}
	require.NoError(t, store.SetEndpoint("https://example.com"))
	shell := &FakeShell{
		LoadFunc: func(ctx context.Context, endpoint *url.URL) error {
			return errors.New("browser gone")
		},
	}
	b := NewBootstrapper(store, shell, DefaultFillPolicy)

	err := b.Handle(context.Background(), Activated{})
	assert.EqualError(t, err, "browser gone")
}

func TestNewBootstrapperDefaultsPolicy(t *testing.T) {
	b := NewBootstrapper(&FakeStore{}, &FakeShell{}, FillPolicy{})
	assert.Equal(t, DefaultFillPolicy, b.policy)
	assert.Equal(t, StateIdle, b.State())
}

func TestRunProcessesEventsInOrder(t *testing.T) {
	b, _, shell := newTestBootstrapper()
	events := make(chan Event, 4)
	events <- Activated{}
	events <- ProfileSubmitted{Endpoint: "https://example.com", Secret: "hunter2"}
	events <- ContentLoaded{Location: "https://example.com/login"}
	close(events)

	err := b.Run(context.Background(), events)

	require.NoError(t, err)
	assert.Equal(t, []string{"prompt", "load", "fill"}, shell.Calls)
	assert.Equal(t, StateLoaded, b.State())
}

func TestRunContinuesAfterFailedEvent(t *testing.T) {
	store := &FakeStore{}
	calls := 0
	shell := &FakeShell{
		LoadFunc: func(ctx context.Context, endpoint *url.URL) error {
			calls++
			if calls == 1 {
				return errors.New("navigation failed")
			}
			return nil
		},
	}
	require.NoError(t, store.SetEndpoint("https://example.com"))
	b := NewBootstrapper(store, shell, DefaultFillPolicy)

	events := make(chan Event, 2)
	events <- Activated{}
	events <- ReloadRequested{}
	close(events)

	require.NoError(t, b.Run(context.Background(), events))
	assert.Equal(t, 2, calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	b, _, _ := newTestBootstrapper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Run(ctx, make(chan Event))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
