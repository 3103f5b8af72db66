// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/spice/internal/config"
	"github.com/invowk/spice/pkg/model"
)

type (
	variantsResult struct {
		Workspace string   `json:"workspace" yaml:"workspace" toml:"workspace"`
		Variants  []string `json:"variants" yaml:"variants" toml:"variants"`
	}

	nodeView struct {
		Address string `json:"address" yaml:"address" toml:"address"`
		Kind    string `json:"kind" yaml:"kind" toml:"kind"`
		Variant string `json:"variant,omitempty" yaml:"variant,omitempty" toml:"variant,omitempty"`
	}

	nodesResult struct {
		Nodes []nodeView `json:"nodes" yaml:"nodes" toml:"nodes"`
	}

	edgeView struct {
		Address string   `json:"address" yaml:"address" toml:"address"`
		Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	}

	depsResult struct {
		Address    string     `json:"address" yaml:"address" toml:"address"`
		Variant    string     `json:"variant" yaml:"variant" toml:"variant"`
		Reverse    bool       `json:"reverse" yaml:"reverse" toml:"reverse"`
		Transitive bool       `json:"transitive" yaml:"transitive" toml:"transitive"`
		Deps       []edgeView `json:"deps" yaml:"deps" toml:"deps"`
	}

	findView struct {
		Path    string `json:"path" yaml:"path" toml:"path"`
		Kind    string `json:"kind" yaml:"kind" toml:"kind"`
		Address string `json:"address" yaml:"address" toml:"address"`
		Variant string `json:"variant,omitempty" yaml:"variant,omitempty" toml:"variant,omitempty"`
	}

	findResult struct {
		Results []findView `json:"results" yaml:"results" toml:"results"`
	}

	validateResult struct {
		Valid      bool     `json:"valid" yaml:"valid" toml:"valid"`
		Variants   []string `json:"variants" yaml:"variants" toml:"variants"`
		Validators []string `json:"validators" yaml:"validators" toml:"validators"`
	}

	orderResult struct {
		Variant string     `json:"variant" yaml:"variant" toml:"variant"`
		Layers  [][]string `json:"layers" yaml:"layers" toml:"layers"`
	}
)

// Node kinds as printed.
const (
	kindModule   = "module"
	kindTest     = "test"
	kindExternal = "external"
	kindGeneral  = "general"
	kindVariant  = "variant"
)

func newNodeView(node model.Node) nodeView {
	switch n := node.(type) {
	case *model.ModuleNode:
		return nodeView{Address: n.Address(), Kind: kindModule}
	case *model.TestNode:
		return nodeView{Address: n.Address(), Kind: kindTest, Variant: n.Variant()}
	default:
		return nodeView{Address: node.Address(), Kind: kindExternal}
	}
}

func newFindView(path string, r model.FindResult) findView {
	switch v := r.(type) {
	case model.GeneralResult:
		return findView{Path: path, Kind: kindGeneral, Address: v.Module.Address()}
	case model.VariantResult:
		return findView{Path: path, Kind: kindVariant, Address: v.Module.Address(), Variant: v.Variant}
	case model.TestResult:
		return findView{Path: path, Kind: kindTest, Address: v.Test.Address(), Variant: v.Test.Variant()}
	default:
		return findView{Path: path, Address: r.Node().Address()}
	}
}

// render writes v in the structured format, or calls text for plain output.
func render(w io.Writer, format config.OutputFormat, v any, text func(io.Writer)) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.OutputTOML:
		return toml.NewEncoder(w).Encode(v)
	case config.OutputText:
		text(w)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
