// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchemaMatchesConfigStruct keeps the CUE schema, the struct tags and the
// Viper key list aligned.
func TestSchemaMatchesConfigStruct(t *testing.T) {
	t.Parallel()

	schema := cuecontext.New().CompileString(configSchema)
	require.NoError(t, schema.Err())
	def := schema.LookupPath(cue.ParsePath("#Config"))
	require.NoError(t, def.Err())

	iter, err := def.Fields(cue.Optional(true))
	require.NoError(t, err)
	var cueFields []string
	for iter.Next() {
		cueFields = append(cueFields, strings.TrimSuffix(iter.Selector().String(), "?"))
	}

	var goFields []string
	typ := reflect.TypeFor[Config]()
	for i := range typ.NumField() {
		tag := typ.Field(i).Tag
		name := strings.Split(tag.Get("json"), ",")[0]
		assert.Equal(t, name, tag.Get("mapstructure"), "field %s", typ.Field(i).Name)
		goFields = append(goFields, name)
	}

	assert.ElementsMatch(t, cueFields, goFields)
	assert.ElementsMatch(t, keys, goFields)
}
