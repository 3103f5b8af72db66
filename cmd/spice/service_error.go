// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/invowk/spice/internal/issue"
)

// renderError prints the suggestions of an actionable error and the matching
// issue catalog entry, if any. The error message itself is printed by fang.
func renderError(stderr io.Writer, err error, verbose bool, style string) {
	if err == nil {
		return
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && (ae.HasSuggestions() || verbose) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error:")+" "+ae.Format(verbose))
	}

	found, ok := issue.IssueOf(err)
	if !ok {
		return
	}
	rendered, renderErr := found.Render(style)
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", found.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}
