// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of user-supplied CUE files.
const DefaultMaxFileSize int64 = 1 << 20

// Validate compiles data, unifies it with the schema definition (e.g.
// "#Config") and validates the result. Fields left out by the user are
// allowed, so the result may be incomplete.
func Validate(schema string, data []byte, definition, filename string) (cue.Value, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// DecodeMap validates data like Validate and decodes it into a generic map,
// the shape viper.MergeConfigMap expects.
func DecodeMap(schema string, data []byte, definition, filename string) (map[string]any, error) {
	unified, err := Validate(schema, data, definition, filename)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}
