// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/traversal"
)

func newOrderCommand(app *App, flags *globalFlags) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "order [address...]",
		Short: "Print a build order, dependencies first",
		Long: `Print a build order for the given nodes and everything they depend on,
dependencies first. Nodes on the same line do not depend on each other and
can be built in parallel. Without addresses every node is ordered.`,
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, args []string) error {
			ctx := cmd.Context()
			slice, err := selectVariant(s, variant)
			if err != nil {
				return err
			}
			var roots []model.Node
			if len(args) > 0 {
				roots, err = model.ResolveAll(ctx, slice, args...)
			} else {
				roots, err = s.workspace.Nodes(ctx)
			}
			if err != nil {
				return err
			}
			layers, err := traversal.TopologicalOrder(ctx, slice, roots...)
			if err != nil {
				return err
			}

			result := orderResult{Variant: slice.Variant(), Layers: layers}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				for i, layer := range result.Layers {
					styled := make([]string, len(layer))
					for j, address := range layer {
						styled[j] = AddressStyle.Render(address)
					}
					fmt.Fprintf(w, "%s %s\n", KindStyle.Render(fmt.Sprintf("%d:", i+1)), strings.Join(styled, " "))
				}
			})
		}),
	}
	cmd.Flags().StringVar(&variant, "variant", "", "variant to order (default is the first declared variant)")
	return cmd
}
