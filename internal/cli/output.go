package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/tui/styles"
)

var stdout io.Writer = os.Stdout

// printJSON writes v as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints v as JSON in --json mode and the styled text line otherwise.
func report(v any, format string, args ...any) error {
	if jsonOut {
		return printJSON(v)
	}
	_, err := fmt.Fprintln(stdout, styles.Muted.Render(fmt.Sprintf(format, args...)))
	return err
}
