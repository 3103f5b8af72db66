// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/spice/internal/issue"
	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/validation"
)

var standardValidatorNames = []string{"completeness", "cycle", "test-leaf"}

func newValidateCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		variant string
		names   []string
	)
	cmd := &cobra.Command{
		Use:   "validate [address...]",
		Short: "Check the graph for cycles, dangling references and test dependencies",
		Long: `Check the graph for cycles, dangling references and test dependencies.

Without addresses every node is checked. Without --variant every variant is
checked.`,
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, args []string) error {
			if len(names) == 0 {
				names = standardValidatorNames
			}
			validators, missing := validation.ByName(names...)
			if len(missing) > 0 {
				ae := issue.NewActionableError("select validators")
				ae.Cause = fmt.Errorf("unknown validators: %s", strings.Join(missing, ", "))
				ae.Suggestions = []string{"Valid validators are " + strings.Join(standardValidatorNames, ", ")}
				return ae
			}

			variants := s.workspace.Variants()
			if variant != "" {
				variants = []string{variant}
			}
			ctx := cmd.Context()
			switch {
			case variant == "" && len(args) == 0:
				if err := s.workspace.Validate(ctx, validators); err != nil {
					return err
				}
			default:
				for _, v := range variants {
					slice, err := s.workspace.Slice(v)
					if err != nil {
						return err
					}
					if err := validateSlice(cmd, s, slice, validators, args); err != nil {
						return err
					}
				}
			}

			result := validateResult{Valid: true, Variants: variants, Validators: names}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				fmt.Fprintln(w, SuccessStyle.Render("✓")+" "+strings.Join(variants, ", ")+" valid")
			})
		}),
	}
	cmd.Flags().StringVar(&variant, "variant", "", "variant to check (default is every variant)")
	cmd.Flags().StringSliceVar(&names, "validators", nil, "validators to run (default completeness,cycle,test-leaf)")
	return cmd
}

func validateSlice(cmd *cobra.Command, s *session, slice model.Slice, validators []model.Validator, addresses []string) error {
	if len(addresses) > 0 {
		return slice.ValidateAddresses(cmd.Context(), validators, addresses...)
	}
	nodes, err := s.workspace.Nodes(cmd.Context())
	if err != nil {
		return err
	}
	return slice.Validate(cmd.Context(), validators, nodes...)
}
