package shell

import (
	"context"
	"fmt"

	"github.com/codeview/cli/internal/profile"
	"github.com/codeview/cli/internal/session"
	"github.com/pterm/pterm"
)

const passwordHelp = `If code-server uses its default password authentication with a fixed password,
codeview can type it into the login page for you. The password is kept in your
system keyring. Leave it empty to disable auto-fill.`

// Asker collects a profile from the user.
type Asker interface {
	Ask(ctx context.Context, current profile.Profile) (session.ProfileSubmitted, error)
}

// Form is the interactive terminal profile form.
type Form struct {
	// Secret returns the stored password so the user can keep it unchanged
	Secret func() (string, bool)
}

// Ask prompts for the endpoint address and the optional password.
func (f Form) Ask(ctx context.Context, current profile.Profile) (session.ProfileSubmitted, error) {
	if err := ctx.Err(); err != nil {
		return session.ProfileSubmitted{}, err
	}

	pterm.DefaultSection.Println("code-server connection")

	address, err := pterm.DefaultInteractiveTextInput.
		WithDefaultValue(current.Endpoint).
		Show("Address (e.g. https://code.example.com)")
	if err != nil {
		return session.ProfileSubmitted{}, fmt.Errorf("failed to read address: %w", err)
	}

	pterm.Info.Println(passwordHelp)

	if current.HasSecret && f.Secret != nil {
		keep, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(true).Show("Keep the stored password?")
		if err != nil {
			return session.ProfileSubmitted{}, fmt.Errorf("failed to read answer: %w", err)
		}
		if keep {
			secret, _ := f.Secret()
			return session.ProfileSubmitted{Endpoint: address, Secret: secret}, nil
		}
	}

	password, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password (optional)")
	if err != nil {
		return session.ProfileSubmitted{}, fmt.Errorf("failed to read password: %w", err)
	}

	return session.ProfileSubmitted{Endpoint: address, Secret: password}, nil
}

// prompter implements Shell.PromptProfile by running an Asker and posting the answer.
type prompter struct {
	asker Asker
	queue *Queue
}

func (p prompter) PromptProfile(ctx context.Context, current profile.Profile) error {
	sub, err := p.asker.Ask(ctx, current)
	if err != nil {
		return err
	}
	p.queue.Post(sub)
	return nil
}
