package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Print a completion script for your shell",
	Long: `Print a completion script so your shell can complete codeview commands and flags,
such as the --shell values of "codeview open".

Try it in the current session:
  bash        source <(codeview completion bash)
  zsh         source <(codeview completion zsh)
  fish        codeview completion fish | source
  powershell  codeview completion powershell | Out-String | Invoke-Expression

To keep it, write the script where your shell looks for completions, e.g.
  codeview completion zsh > "${fpath[1]}/_codeview"
  codeview completion fish > ~/.config/fish/completions/codeview.fish`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	root := cmd.Root()
	switch args[0] {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return fmt.Errorf("unsupported shell %q", args[0])
}
