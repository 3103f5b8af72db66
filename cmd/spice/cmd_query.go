// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/spice/internal/issue"
	"github.com/invowk/spice/pkg/model"
)

func newVariantsCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the variants declared by the workspace",
		Args:  cobra.NoArgs,
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, _ []string) error {
			result := variantsResult{Workspace: s.workspace.Document().Name, Variants: s.workspace.Variants()}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				for _, variant := range result.Variants {
					fmt.Fprintln(w, variant)
				}
			})
		}),
	}
}

func newNodesCommand(app *App, flags *globalFlags) *cobra.Command {
	var modulesOnly bool
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List every module and test in the workspace",
		Args:  cobra.NoArgs,
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, _ []string) error {
			nodes, err := s.workspace.Nodes(cmd.Context())
			if err != nil {
				return err
			}
			result := nodesResult{Nodes: []nodeView{}}
			for _, node := range nodes {
				if _, ok := node.(*model.ModuleNode); modulesOnly && !ok {
					continue
				}
				result.Nodes = append(result.Nodes, newNodeView(node))
			}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				for _, n := range result.Nodes {
					fmt.Fprintln(w, AddressStyle.Render(n.Address)+" "+KindStyle.Render(n.Kind))
				}
			})
		}),
	}
	cmd.Flags().BoolVar(&modulesOnly, "modules", false, "list modules only")
	return cmd
}

func newFindCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "find <path>...",
		Short: "Find the module, variant or test owning each path",
		Long: `Find the module, variant or test owning each path.

Paths are absolute from the workspace root. A path inside a module but outside
every declared source root is reported as "general".`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWithSession(app, flags, func(cmd *cobra.Command, s *session, args []string) error {
			result := findResult{Results: []findView{}}
			for _, path := range args {
				found, err := s.workspace.FindNode(cmd.Context(), path)
				if err != nil {
					return err
				}
				if len(found) == 0 {
					s.logger.Warn("no module owns path", "path", path)
				}
				for _, r := range found {
					result.Results = append(result.Results, newFindView(path, r))
				}
			}
			return render(cmd.OutOrStdout(), s.output, result, func(w io.Writer) {
				for _, r := range result.Results {
					line := r.Path + " " + AddressStyle.Render(r.Address) + " " + KindStyle.Render(r.Kind)
					if r.Variant != "" && r.Kind != kindTest {
						line += " " + TagStyle.Render(r.Variant)
					}
					fmt.Fprintln(w, line)
				}
			})
		}),
	}
}

// selectVariant returns the named slice, or the first declared variant when
// name is empty.
func selectVariant(s *session, name string) (model.Slice, error) {
	if name == "" {
		variants := s.workspace.Variants()
		if len(variants) == 0 {
			return nil, &model.UnknownVariantError{Workspace: s.workspace.File()}
		}
		name = variants[0]
	}
	slice, err := s.workspace.Slice(name)
	if err != nil {
		return nil, issue.WrapWithOperation(err, "select variant")
	}
	return slice, nil
}
