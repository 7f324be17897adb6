package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionTestRoot(out *bytes.Buffer) *cobra.Command {
	root := &cobra.Command{Use: "codeview"}
	sub := &cobra.Command{
		Use:       completionCmd.Use,
		ValidArgs: completionCmd.ValidArgs,
		Args:      completionCmd.Args,
		RunE:      runCompletion,
	}
	root.AddCommand(sub)
	root.SetOut(out)
	root.SetErr(out)
	return root
}

func TestCompletion_PrintsScriptPerShell(t *testing.T) {
	for _, sh := range completionShells {
		t.Run(sh, func(t *testing.T) {
			var out bytes.Buffer
			root := newCompletionTestRoot(&out)
			root.SetArgs([]string{"completion", sh})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "codeview")
		})
	}
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	var out bytes.Buffer
	root := newCompletionTestRoot(&out)
	root.SetArgs([]string{"completion", "tcsh"})

	assert.Error(t, root.Execute())
}
