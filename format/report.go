package format

import (
	"fmt"
	"io"
	"strings"

	"tresjolie.dev/transit/reconcile"
)

// Writes a plain text reconciliation report. Names of removed stops
// are looked up in current, which may be nil.
func WriteReport(w io.Writer, current *reconcile.StopSet, result *reconcile.Result, unmatched []reconcile.UnmatchedOverride) error {
	b := &strings.Builder{}

	// "  <code> <name>", or just the code when the name is unknown.
	stopLine := func(set *reconcile.StopSet, code string) {
		if set != nil {
			if s, found := set.Get(code); found && s.Name != "" {
				fmt.Fprintf(b, "  %s %s\n", code, s.Name)
				return
			}
		}
		fmt.Fprintf(b, "  %s\n", code)
	}

	fmt.Fprintf(b, "added: %d\n", len(result.Added))
	for _, code := range result.Added {
		stopLine(result.Merged, code)
	}

	fmt.Fprintf(b, "removed: %d\n", len(result.Removed))
	for _, code := range result.Removed {
		stopLine(current, code)
	}

	changed := result.Changed()
	fmt.Fprintf(b, "changed: %d\n", len(changed))
	for _, code := range changed {
		stopLine(result.Merged, code)
		for _, change := range result.Differences[code] {
			fmt.Fprintf(b, "    %s\n", change)
		}
	}

	if len(unmatched) > 0 {
		fmt.Fprintf(b, "unmatched overrides: %d\n", len(unmatched))
		for _, u := range unmatched {
			fmt.Fprintf(b, "  %s\n", u)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
