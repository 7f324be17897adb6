package main

import "github.com/codeview/cli/cmd"

// Set with -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(cmd.Metadata{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
}
