// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/traversal"
)

type depsFlags struct {
	variant    string
	reverse    bool
	transitive bool
}

func newDepsCommand(app *App, flags *globalFlags) *cobra.Command {
	df := &depsFlags{}
	cmd := &cobra.Command{
		Use:   "deps <address>",
		Short: "Show what a node depends on, or what depends on it",
		Long: `Show the dependencies of a node in one variant.

With --reverse the dependents are listed instead; the address does not need to
exist, so the referrers of a missing module can be found. With --transitive
the whole closure is listed in breadth-first order.`,
		Args: cobra.ExactArgs(1),
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, args []string) error {
			slice, err := selectVariant(s, df.variant)
			if err != nil {
				return err
			}
			deps, err := queryDeps(cmd.Context(), slice, args[0], df)
			if err != nil {
				return err
			}
			result := depsResult{
				Address:    args[0],
				Variant:    slice.Variant(),
				Reverse:    df.reverse,
				Transitive: df.transitive,
				Deps:       deps,
			}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				for _, d := range result.Deps {
					line := AddressStyle.Render(d.Address)
					if len(d.Tags) > 0 {
						line += " " + TagStyle.Render("["+strings.Join(d.Tags, ", ")+"]")
					}
					fmt.Fprintln(w, line)
				}
			})
		}),
	}
	cmd.Flags().StringVar(&df.variant, "variant", "", "variant to query (default is the first declared variant)")
	cmd.Flags().BoolVarP(&df.reverse, "reverse", "r", false, "list dependents instead of dependencies")
	cmd.Flags().BoolVarP(&df.transitive, "transitive", "t", false, "list the whole closure")
	return cmd
}

func queryDeps(ctx context.Context, slice model.Slice, address string, df *depsFlags) ([]edgeView, error) {
	if !df.transitive {
		var (
			edges []model.Edge
			err   error
		)
		if df.reverse {
			edges, err = slice.DependenciesOnAddress(ctx, address)
		} else {
			edges, err = slice.DependenciesOfAddress(ctx, address)
		}
		if err != nil {
			return nil, err
		}
		views := make([]edgeView, len(edges))
		for i, e := range edges {
			views[i] = edgeView{Address: e.Target, Tags: e.Tags}
		}
		return views, nil
	}

	root, err := slice.NodeAt(ctx, address)
	if err != nil {
		return nil, err
	}
	views := []edgeView{}
	visit := func(node model.Node) error {
		if node.Address() != address {
			views = append(views, edgeView{Address: node.Address()})
		}
		return nil
	}
	// External targets only appear when local_only is off. They are leaves.
	externalLeaf := traversal.WithNodeError(func(_ context.Context, _ model.Slice, target string, err error) (model.Node, error) {
		if model.IsExternalAddress(target) {
			return model.NewExternalNode(target), nil
		}
		return nil, err
	})
	walker := traversal.NewForward(visit, externalLeaf)
	if df.reverse {
		walker = traversal.NewReverse(visit, externalLeaf)
	}
	if err := walker.Walk(ctx, slice, root); err != nil {
		return nil, err
	}
	return views, nil
}
