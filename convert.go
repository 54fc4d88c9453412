// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Converter converts a raw decoded JSON value into a typed attribute value.
//
// The raw value is what [encoding/json] produces when decoding with
// UseNumber: nil, bool, string, [json.Number], []any, or map[string]any.
//
// Converters are pure. The [*Materializer] argument is only used by
// [Nested] to materialize embedded objects with the same logger.
type Converter func(mz *Materializer, raw any) (any, error)

// DateTimeLayout is the timestamp layout used by the API, both in
// responses and in request parameters. Timestamps carry no zone and
// are interpreted as UTC.
const DateTimeLayout = "2006-01-02 15:04:05"

// errNotAnEnumMember indicates an ordinal outside the known set.
var errNotAnEnumMember = errors.New("not an enum member")

func errUnexpectedType(want string, raw any) error {
	return fmt.Errorf("expected %s, got %T", want, raw)
}

// Int converts a JSON number or a numeric string to int64.
func Int(_ *Materializer, raw any) (any, error) {
	return toInt(raw)
}

func toInt(raw any) (int64, error) {
	switch value := raw.(type) {
	case json.Number:
		return strconv.ParseInt(value.String(), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	case float64:
		if value != math.Trunc(value) || math.IsInf(value, 0) {
			return 0, fmt.Errorf("non-integral number %v", value)
		}
		return int64(value), nil
	default:
		return 0, errUnexpectedType("integer", raw)
	}
}

// Float converts a JSON number or a numeric string to float64.
func Float(_ *Materializer, raw any) (any, error) {
	switch value := raw.(type) {
	case json.Number:
		return value.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	case float64:
		return value, nil
	default:
		return nil, errUnexpectedType("number", raw)
	}
}

// Bool converts a JSON boolean or a "true"/"false" string to bool.
//
// Use [IntBool] for the "0"/"1" flags the API uses in most places.
func Bool(_ *Materializer, raw any) (any, error) {
	switch value := raw.(type) {
	case bool:
		return value, nil
	case string:
		return strconv.ParseBool(value)
	default:
		return nil, errUnexpectedType("boolean", raw)
	}
}

// String converts a JSON string (or the text of a JSON number) to string.
func String(_ *Materializer, raw any) (any, error) {
	switch value := raw.(type) {
	case string:
		return value, nil
	case json.Number:
		return value.String(), nil
	default:
		return nil, errUnexpectedType("string", raw)
	}
}

// IntBool first converts the raw value to an integer and then
// returns whether the integer is nonzero.
func IntBool(_ *Materializer, raw any) (any, error) {
	value, err := toInt(raw)
	if err != nil {
		return nil, err
	}
	return value != 0, nil
}

// DateTime parses a [DateTimeLayout] timestamp into a UTC [time.Time].
func DateTime(_ *Materializer, raw any) (any, error) {
	value, ok := raw.(string)
	if !ok {
		return nil, errUnexpectedType("timestamp string", raw)
	}
	return time.ParseInLocation(DateTimeLayout, value, time.UTC)
}

// ListOf returns a [Converter] for a JSON array whose elements are
// converted using conv. The result is a []any in input order. A single
// failing element fails the whole list.
func ListOf(conv Converter) Converter {
	return func(mz *Materializer, raw any) (any, error) {
		elems, ok := raw.([]any)
		if !ok {
			return nil, errUnexpectedType("array", raw)
		}
		out := make([]any, 0, len(elems))
		for idx, elem := range elems {
			value, err := conv(mz, elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			out = append(out, value)
		}
		return out, nil
	}
}

// CSVListOf returns a [Converter] for a comma separated string whose
// items are converted using conv. An empty string yields an empty list.
func CSVListOf(conv Converter) Converter {
	return func(mz *Materializer, raw any) (any, error) {
		value, ok := raw.(string)
		if !ok {
			return nil, errUnexpectedType("comma separated string", raw)
		}
		out := []any{}
		if value == "" {
			return out, nil
		}
		for idx, item := range strings.Split(value, ",") {
			converted, err := conv(mz, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", idx, err)
			}
			out = append(out, converted)
		}
		return out, nil
	}
}

// NullableOf returns a [Converter] that maps JSON null to nil and
// otherwise delegates to conv.
func NullableOf(conv Converter) Converter {
	return func(mz *Materializer, raw any) (any, error) {
		if raw == nil {
			return nil, nil
		}
		return conv(mz, raw)
	}
}

// Enum is the constraint satisfied by the integer enumerations and the
// bitmask types used with [IntThenEnum].
type Enum interface {
	~int | ~uint32

	// Valid returns whether the value is a known member.
	Valid() bool
}

// IntThenEnum returns a [Converter] that first converts the raw value
// to an integer and then to E. Values that are not members of E fail
// with an error; they are never replaced by a default.
func IntThenEnum[E Enum]() Converter {
	return func(_ *Materializer, raw any) (any, error) {
		value, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		member := E(value)
		if int64(member) != value || !member.Valid() {
			return nil, fmt.Errorf("%w: %T(%d)", errNotAnEnumMember, member, value)
		}
		return member, nil
	}
}

// Nested returns a [Converter] that materializes a JSON object
// using the given [*Schema]. The result is an [*Instance].
func Nested(schema *Schema) Converter {
	return func(mz *Materializer, raw any) (any, error) {
		return mz.Materialize(schema, raw)
	}
}
