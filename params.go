// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Params holds the query parameters of an API call.
//
// A nil value, or a nil pointer, means the parameter is not set and
// [Params.Values] omits its key entirely.
type Params map[string]any

// Values encodes the parameters that are set.
//
// Encoding rules: enum ordinals and mods are sent as decimal integers,
// booleans as 1 or 0, and times in UTC using [DateTimeLayout].
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, value := range p {
		text, ok := formatParam(value)
		if !ok {
			continue
		}
		values.Set(key, text)
	}
	return values
}

func formatParam(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		value = rv.Elem().Interface()
	}
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case time.Time:
		return v.UTC().Format(DateTimeLayout), true
	}
	// Integer kinds include [Mode] and [Mods], which must be sent as numbers
	// rather than through their String method.
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
		return fmt.Sprint(value), true
	}
}
