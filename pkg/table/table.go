package table

import (
	"github.com/pterm/pterm"
)

// PrintTableNoPad renders rows separated by spaces instead of column bars.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	_ = pterm.DefaultTable.
		WithHasHeader(hasHeader).
		WithSeparator("  ").
		WithData(rows).
		Render()
}
