package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/codeview/cli/internal/profile"
	"github.com/codeview/cli/internal/session"
	"github.com/codeview/cli/internal/shell"
	"github.com/codeview/cli/pkg/table"
	"github.com/codeview/cli/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// ProfileCmd handles operations on the stored connection profile.
type ProfileCmd struct {
	store  session.ProfileStore
	asker  shell.Asker
	policy session.FillPolicy
}

// ConfigureInput holds input for saving a profile. Unset fields keep their stored value;
// when neither is set the interactive form is shown.
type ConfigureInput struct {
	Address     string
	AddressSet  bool
	Password    string
	PasswordSet bool
}

// Configure saves the profile and reports what `open` will do next.
func (p ProfileCmd) Configure(ctx context.Context, in ConfigureInput) error {
	var sub session.ProfileSubmitted
	interactive := !in.AddressSet && !in.PasswordSet
	if interactive {
		answer, err := p.asker.Ask(ctx, p.store.Snapshot())
		if err != nil {
			return err
		}
		sub = answer
	} else {
		sub.Endpoint = lo.Ternary(in.AddressSet, in.Address, p.store.Snapshot().Endpoint)
		if in.PasswordSet {
			sub.Secret = in.Password
		} else {
			sub.Secret, _ = p.store.Secret()
		}
	}

	if _, err := profile.ParseEndpoint(sub.Endpoint); err != nil && (interactive || in.AddressSet) {
		pterm.Warning.Printf("Not a valid address (%v); no address is saved now.\n", err)
	}

	b := session.NewBootstrapper(p.store, &shell.TerminalShell{}, p.policy)
	return b.Handle(ctx, sub)
}

// Clear removes the stored address and password.
func (p ProfileCmd) Clear(ctx context.Context) error {
	b := session.NewBootstrapper(p.store, &shell.TerminalShell{}, p.policy)
	return b.Handle(ctx, session.ProfileCleared{})
}

// ShowInput holds input for printing the profile.
type ShowInput struct {
	Output string
}

type showOutput struct {
	profile.Profile
	OnOpen string `json:"on_open"`
}

// Show prints the stored profile with the password masked.
func (p ProfileCmd) Show(ctx context.Context, in ShowInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	snap := p.store.Snapshot()
	decision := session.Decide(p.store, false)

	if in.Output == "json" {
		return util.PrintPrettyJSON(showOutput{Profile: snap, OnOpen: decision.State.String()})
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Address", util.OrDash(snap.Endpoint)})
	rows = append(rows, []string{"Password", lo.Ternary(snap.HasSecret, "stored in keyring", "-")})
	rows = append(rows, []string{"Auto-fill", lo.Ternary(snap.HasSecret, "enabled", "disabled")})
	rows = append(rows, []string{"On open", decision.State.String()})
	rows = append(rows, []string{"Accent", swatch(session.AccentColor) + " " + session.AccentColor.Hex()})
	table.PrintTableNoPad(rows, true)
	return nil
}

func swatch(c session.RGB) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
}

// Script prints the auto-fill script for the stored password.
func (p ProfileCmd) Script(ctx context.Context) error {
	secret, ok := p.store.Secret()
	if !ok {
		return fmt.Errorf("no password stored: run `codeview configure` to add one")
	}
	pterm.Println(session.NewFillCommand(secret, p.policy).Script())
	return nil
}

func newProfileCmd() ProfileCmd {
	store := newStore(cfg)
	return ProfileCmd{
		store:  store,
		asker:  shell.Form{Secret: store.Secret},
		policy: fillPolicy(cfg),
	}
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the code-server address and password",
	Long: `Set the code-server address and, optionally, its password.

Without flags an interactive form is shown. An address that is not an absolute URL
removes the stored address. An empty password removes the stored password.`,
	Example: `  # Interactive form
  codeview configure

  # Non-interactive
  codeview configure --address https://code.example.com --password hunter2`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored address and password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newProfileCmd().Clear(cmd.Context())
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return newProfileCmd().Show(cmd.Context(), ShowInput{Output: output})
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print a script that signs in to code-server with the stored password",
	Long: `Print JavaScript that fills in and submits the code-server login form with the
stored password. Paste it into the browser console on the login page when using
a browser that codeview does not control.

The output contains your password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newProfileCmd().Script(cmd.Context())
	},
}

func init() {
	configureCmd.Flags().String("address", "", "code-server address, e.g. https://code.example.com")
	configureCmd.Flags().String("password", "", "code-server password (empty removes it)")
	showCmd.Flags().StringP("output", "o", "", "Output format (json)")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(scriptCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	address, _ := cmd.Flags().GetString("address")
	password, _ := cmd.Flags().GetString("password")

	return newProfileCmd().Configure(cmd.Context(), ConfigureInput{
		Address:     address,
		AddressSet:  cmd.Flags().Changed("address"),
		Password:    password,
		PasswordSet: cmd.Flags().Changed("password"),
	})
}
