// SPDX-License-Identifier: MPL-2.0

// Package serialization reads and writes spice declaration files.
//
// Declarations are YAML. Every document is checked against an embedded CUE
// schema before it is decoded, so unknown keys and wrongly typed values are
// reported with their path. Written output reads back to an equal value.
package serialization

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/invowk/spice/internal/cueutil"
	"github.com/invowk/spice/pkg/model"
)

const (
	moduleDefinition    = "#Module"
	workspaceDefinition = "#Workspace"
)

//go:embed schema.cue
var schema []byte

// Schema returns the embedded CUE schema for declaration files.
func Schema() []byte { return bytes.Clone(schema) }

// UnmarshalModule decodes a module declaration. filename is used in error messages.
func UnmarshalModule(data []byte, filename string) (model.ModuleDocument, error) {
	var doc model.ModuleDocument
	if err := unmarshal(data, filename, moduleDefinition, &doc); err != nil {
		return model.ModuleDocument{}, err
	}
	return doc, nil
}

// UnmarshalWorkspace decodes a workspace declaration. filename is used in error messages.
func UnmarshalWorkspace(data []byte, filename string) (model.WorkspaceDocument, error) {
	var doc model.WorkspaceDocument
	if err := unmarshal(data, filename, workspaceDefinition, &doc); err != nil {
		return model.WorkspaceDocument{}, err
	}
	return doc, nil
}

// MarshalModule encodes a module declaration as YAML.
func MarshalModule(doc model.ModuleDocument) ([]byte, error) {
	return marshal(doc)
}

// MarshalWorkspace encodes a workspace declaration as YAML.
func MarshalWorkspace(doc model.WorkspaceDocument) ([]byte, error) {
	return marshal(doc)
}

func unmarshal(data []byte, filename, definition string, out any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if len(root.Content) == 0 || root.Content[0].Tag == "!!null" {
		// An empty module file declares nothing and inherits every default.
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}

	var generic any
	if err := root.Decode(&generic); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := cueutil.ValidateValue(schema, definition, generic, len(data), cueutil.WithFilename(filename)); err != nil {
		return err
	}
	if err := root.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
