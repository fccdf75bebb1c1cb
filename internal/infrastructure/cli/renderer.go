package cli

import (
	"fmt"
	"io"

	"github.com/doeshing/symcheck-go/internal/domain"
)

// RenderOutcome prints an analysis in a plain, ASCII-only format.
func RenderOutcome(out io.Writer, outcome domain.Outcome) {
	if outcome.Retryable() {
		fmt.Fprintln(out, "AI service temporarily unavailable; showing rule-based guidance.")
		if outcome.RetryAfter > 0 {
			fmt.Fprintf(out, "Retry after: %s\n", outcome.RetryAfter)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, outcome.Result.Text)
	fmt.Fprintln(out)
	fmt.Fprintln(out, domain.MedicalDisclaimer)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Source: %s\n", outcome.Result.Source)
	if outcome.Persisted {
		fmt.Fprintf(out, "Saved as %s\n", outcome.QueryID)
	} else {
		fmt.Fprintln(out, "Warning: analysis was not saved to history")
	}
}
