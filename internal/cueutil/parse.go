// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful CUE parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T
	// Unified is the unified CUE value.
	Unified cue.Value
}

// ParseAndDecode compiles CUE source data, unifies it with the schemaPath
// definition of schema, validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	unified, err := validate(root.Unify(userValue), o)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// ValidateValue checks an already-decoded Go value (maps, slices and scalars,
// as produced by a YAML or JSON decoder) against the schemaPath definition
// of schema. size is the size of the raw input the value came from.
func ValidateValue(schema []byte, schemaPath string, value any, size int, opts ...Option) error {
	o := applyOptions(opts)
	if int64(size) > o.maxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", o.filename, size, o.maxFileSize)
	}

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, schemaPath)
	if err != nil {
		return err
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return FormatError(encoded.Err(), o.filename)
	}
	_, err = validate(root.Unify(encoded), o)
	return err
}

func lookupDefinition(ctx *cue.Context, schema []byte, schemaPath string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}
	return root, nil
}

func validate(unified cue.Value, o options) (cue.Value, error) {
	var err error
	if o.concrete {
		err = unified.Validate(cue.Concrete(true))
	} else {
		err = unified.Validate()
	}
	if err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}
