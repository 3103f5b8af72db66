// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "spice",
		Short: "Inspect the build graph of a multi-module workspace",
		Long: TitleStyle.Render("spice") + SubtitleStyle.Render(" - build metadata for multi-module workspaces") + `

spice reads workspace.spice.yml at the workspace root and module.spice.yml in
every module directory, and answers questions about the resulting graph:
which modules exist, what depends on what in each variant, which module owns
a path, and whether the graph is valid.

` + SubtitleStyle.Render("Examples:") + `
  spice variants                     List the declared variants
  spice deps /app --transitive       Everything /app needs
  spice deps /lib --reverse          Everything that needs /lib
  spice find /app/src/main.go        The module owning a file
  spice validate                     Check every variant
  spice order --variant release      Build order, in parallel layers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.workspace, "workspace", "w", ".", "workspace directory or declaration file")
	pf.StringVar(&flags.config, "config", "", "config file (default is spice.cue in the workspace directory)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVarP(&flags.output, "output", "o", "", "output format: text, json, yaml or toml (default from config)")

	root.AddCommand(
		newVariantsCommand(app, flags),
		newNodesCommand(app, flags),
		newDepsCommand(app, flags),
		newFindCommand(app, flags),
		newValidateCommand(app, flags),
		newOrderCommand(app, flags),
	)
	return root
}

// runWithSession opens the workspace and runs fn. Failures render their
// issue help and become an ExitError with code 1.
func runWithSession(app *App, flags *globalFlags, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := app.open(cmd.Context(), flags)
		if err == nil {
			err = fn(cmd, s, args)
			if flags.verbose {
				app.logMetrics(s.logger)
			}
		}
		if err != nil {
			renderError(cmd.ErrOrStderr(), err, flags.verbose, app.IssueStyle)
			return &ExitError{Code: 1, Err: err}
		}
		return nil
	}
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	root := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
