// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"maps"
	"slices"

	"github.com/bassosimone/runtimex"
)

// FieldSpec declares one attribute of a [*Schema].
//
// Construct using [Field].
type FieldSpec struct {
	// SourceKey is the key in the JSON object.
	SourceKey string

	// TargetName is the attribute name in the materialized [*Instance].
	TargetName string

	// Convert converts the raw JSON value.
	Convert Converter
}

// FieldOption customizes a [FieldSpec] created by [Field].
type FieldOption func(spec *FieldSpec)

// WithSource overrides the JSON key, which defaults to the attribute name.
func WithSource(key string) FieldOption {
	return func(spec *FieldSpec) {
		spec.SourceKey = key
	}
}

// Field returns a [FieldSpec] for the attribute called name. Unless
// overridden with [WithSource], the JSON key equals the attribute name.
func Field(name string, conv Converter, options ...FieldOption) FieldSpec {
	runtimex.Assert(name != "" && conv != nil)
	spec := FieldSpec{SourceKey: name, TargetName: name, Convert: conv}
	for _, option := range options {
		option(&spec)
	}
	return spec
}

// Schema maps JSON keys to [FieldSpec] for one domain type.
//
// A Schema is immutable once constructed by [NewSchema]. Domain schemas
// are package-level variables built once during package initialization.
type Schema struct {
	name   string
	fields map[string]FieldSpec
}

// NewSchema returns a new [*Schema] called name.
//
// When parent is not nil, the new schema contains all the parent's fields
// plus the given fields. A field whose key is already present in the parent
// replaces the parent's declaration. Within fields, a later declaration of
// the same key replaces an earlier one.
func NewSchema(name string, parent *Schema, fields ...FieldSpec) *Schema {
	merged := make(map[string]FieldSpec)
	if parent != nil {
		maps.Copy(merged, parent.fields)
	}
	for _, spec := range fields {
		merged[spec.SourceKey] = spec
	}
	return &Schema{name: name, fields: merged}
}

// Name returns the schema name used in diagnostics and errors.
func (s *Schema) Name() string {
	return s.name
}

// Lookup returns the [FieldSpec] for the given JSON key.
func (s *Schema) Lookup(key string) (FieldSpec, bool) {
	spec, found := s.fields[key]
	return spec, found
}

// Keys returns the sorted JSON keys known to the schema.
func (s *Schema) Keys() []string {
	return slices.Sorted(maps.Keys(s.fields))
}
