package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/codeview/cli/internal/profile"
)

// FakeStore is an in-memory ProfileStore with the same parsing rules as profile.Store.
type FakeStore struct {
	endpoint *url.URL
	secret   string
}

func (f *FakeStore) HasEndpoint() bool { return f.endpoint != nil }

func (f *FakeStore) Endpoint() (*url.URL, bool) { return f.endpoint, f.endpoint != nil }

func (f *FakeStore) Secret() (string, bool) { return f.secret, f.secret != "" }

func (f *FakeStore) SetEndpoint(raw string) error {
	u, err := profile.ParseEndpoint(raw)
	if err != nil {
		f.endpoint = nil
		return nil
	}
	f.endpoint = u
	return nil
}

func (f *FakeStore) SetSecret(raw string) error {
	if strings.TrimSpace(raw) == "" {
		f.secret = ""
		return nil
	}
	f.secret = raw
	return nil
}

func (f *FakeStore) Clear() error {
	f.endpoint = nil
	f.secret = ""
	return nil
}

func (f *FakeStore) Snapshot() profile.Profile {
	p := profile.Profile{HasSecret: f.secret != ""}
	if f.endpoint != nil {
		p.Endpoint = f.endpoint.String()
	}
	return p
}

// FakeShell records every call it receives.
type FakeShell struct {
	Calls   []string
	Loaded  []string
	Prompts []profile.Profile
	Fills   []FillCommand
	Themes  []Theme

	LoadFunc func(ctx context.Context, endpoint *url.URL) error
}

func (f *FakeShell) ShowBlank(ctx context.Context) error {
	f.Calls = append(f.Calls, "blank")
	return nil
}

func (f *FakeShell) PromptProfile(ctx context.Context, current profile.Profile) error {
	f.Calls = append(f.Calls, "prompt")
	f.Prompts = append(f.Prompts, current)
	return nil
}

func (f *FakeShell) Load(ctx context.Context, endpoint *url.URL) error {
	f.Calls = append(f.Calls, "load")
	f.Loaded = append(f.Loaded, endpoint.String())
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx, endpoint)
	}
	return nil
}

func (f *FakeShell) FillAndSubmit(ctx context.Context, cmd FillCommand) error {
	f.Calls = append(f.Calls, "fill")
	f.Fills = append(f.Fills, cmd)
	return nil
}

func (f *FakeShell) Paint(ctx context.Context, theme Theme) error {
	f.Themes = append(f.Themes, theme)
	return nil
}
