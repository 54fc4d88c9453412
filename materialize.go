// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Materializer turns decoded JSON objects into [*Instance] values
// according to a [*Schema].
//
// The zero value is ready to use and discards diagnostics.
//
// A Materializer is safe for concurrent use as long as its fields
// are not mutated concurrently.
type Materializer struct {
	// Logger receives the unknownAttribute warnings.
	//
	// Set by [NewMaterializer] to the user-provided logger.
	Logger SLogger
}

// NewMaterializer returns a new [*Materializer].
//
// The logger argument is the [SLogger] receiving diagnostics about
// attributes that are not declared by the schema.
func NewMaterializer(logger SLogger) *Materializer {
	return &Materializer{Logger: logger}
}

func (mz *Materializer) logger() SLogger {
	if mz == nil || mz.Logger == nil {
		return DefaultSLogger()
	}
	return mz.Logger
}

var errNotAnObject = errors.New("expected a JSON object")

// Materialize builds an [*Instance] from a decoded JSON object.
//
// Keys declared by the schema are converted; the first conversion failure
// aborts materialization with a [*ConversionError]. Keys not declared by
// the schema produce an unknownAttribute warning and are otherwise ignored,
// so that the API may add fields without breaking this client. Declared
// fields missing from the object remain unset.
func (mz *Materializer) Materialize(schema *Schema, raw any) (*Instance, error) {
	object, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConversionError{Type: schema.Name(), Err: errNotAnObject}
	}
	attrs := make(map[string]any, len(object))
	for _, key := range slices.Sorted(maps.Keys(object)) {
		spec, found := schema.Lookup(key)
		if !found {
			mz.logger().Warn(
				"unknownAttribute",
				slog.String("type", schema.Name()),
				slog.String("key", key),
			)
			continue
		}
		value, err := spec.Convert(mz, object[key])
		if err != nil {
			return nil, &ConversionError{Type: schema.Name(), Key: key, Err: err}
		}
		attrs[spec.TargetName] = value
	}
	return &Instance{typeName: schema.Name(), attrs: attrs}, nil
}

// MaterializeList builds one [*Instance] per element of a decoded
// JSON array, preserving order. Any failing element fails the list.
func (mz *Materializer) MaterializeList(schema *Schema, raw any) ([]*Instance, error) {
	elems, ok := raw.([]any)
	if !ok {
		return nil, &ConversionError{Type: schema.Name(), Err: errUnexpectedType("array", raw)}
	}
	out := make([]*Instance, 0, len(elems))
	for _, elem := range elems {
		inst, err := mz.Materialize(schema, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// NewObjectFunc returns a [Func] materializing a JSON object with schema.
func NewObjectFunc(mz *Materializer, schema *Schema) Func[any, *Instance] {
	return FuncAdapter[any, *Instance](func(ctx context.Context, raw any) (*Instance, error) {
		return mz.Materialize(schema, raw)
	})
}

// NewListFunc returns a [Func] materializing a JSON array with schema.
func NewListFunc(mz *Materializer, schema *Schema) Func[any, []*Instance] {
	return FuncAdapter[any, []*Instance](func(ctx context.Context, raw any) ([]*Instance, error) {
		return mz.MaterializeList(schema, raw)
	})
}

// Instance is a materialized domain object: a mapping from attribute
// name to typed value. An Instance is never modified after construction.
//
// Any attribute may be unset, because the API may omit any field.
type Instance struct {
	typeName string
	attrs    map[string]any
}

// Type returns the name of the schema used to build the instance.
func (inst *Instance) Type() string {
	return inst.typeName
}

// Has returns whether the attribute is set. An attribute whose
// value was JSON null is set, with a nil value.
func (inst *Instance) Has(name string) bool {
	_, found := inst.attrs[name]
	return found
}

// Get returns the raw attribute value and whether it is set. List
// values are returned as copies.
func (inst *Instance) Get(name string) (any, bool) {
	value, found := inst.attrs[name]
	if list, ok := value.([]any); ok {
		return slices.Clone(list), found
	}
	return value, found
}

// Names returns the sorted names of the attributes that are set.
func (inst *Instance) Names() []string {
	return slices.Sorted(maps.Keys(inst.attrs))
}

// Int returns an integer attribute.
func (inst *Instance) Int(name string) (int64, bool) {
	return Attr[int64](inst, name)
}

// Float returns a floating point attribute.
func (inst *Instance) Float(name string) (float64, bool) {
	return Attr[float64](inst, name)
}

// Bool returns a boolean attribute.
func (inst *Instance) Bool(name string) (bool, bool) {
	return Attr[bool](inst, name)
}

// Text returns a string attribute.
func (inst *Instance) Text(name string) (string, bool) {
	return Attr[string](inst, name)
}

// Time returns a timestamp attribute.
func (inst *Instance) Time(name string) (time.Time, bool) {
	return Attr[time.Time](inst, name)
}

// MarshalJSON implements [json.Marshaler].
func (inst *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(inst.attrs)
}

// Attr returns the attribute called name as a T. The boolean is
// false when the attribute is unset, null, or not a T. List values
// are returned as copies.
func Attr[T any](inst *Instance, name string) (T, bool) {
	var zero T
	if inst == nil {
		return zero, false
	}
	value, found := inst.Get(name)
	if !found {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// AttrList returns a list attribute whose elements are all T.
func AttrList[T any](inst *Instance, name string) ([]T, bool) {
	elems, ok := Attr[[]any](inst, name)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		value, ok := elem.(T)
		if !ok {
			return nil, false
		}
		out = append(out, value)
	}
	return out, true
}
