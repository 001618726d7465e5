// Package output renders analysis documents as deterministic JSON.
//
// Reports are compared byte-for-byte across runs, so encoding must be
// stable: sorted keys, fixed float precision, empty collections omitted.
package output

import (
	"bytes"
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"sort"
)

// Encode produces compact deterministic JSON for v.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(normalize(v)); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// EncodeIndented produces indented deterministic JSON for v.
func EncodeIndented(v any, indent string) ([]byte, error) {
	return json.MarshalIndent(normalize(v), "", indent)
}

// RoundFloat rounds to 6 decimal places so float noise never changes output.
func RoundFloat(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// normalize recursively prepares a value for stable encoding: pointers are
// dereferenced, floats rounded, maps rebuilt (json.Marshal sorts string
// keys), and empty collections collapsed to nil.
func normalize(v any) any {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		// Types that marshal themselves (time.Time and friends) keep
		// their own stable encoding.
		if m, ok := val.Interface().(json.Marshaler); ok {
			return m
		}
		if m, ok := val.Interface().(encoding.TextMarshaler); ok {
			return m
		}
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float())
	case reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return normalize(val.Interface())
	default:
		return val.Interface()
	}
}

func normalizeMap(val reflect.Value) any {
	if val.IsNil() || val.Len() == 0 {
		return nil
	}

	result := make(map[string]any, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		if norm := normalize(iter.Value().Interface()); norm != nil {
			result[iter.Key().String()] = norm
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func normalizeSlice(val reflect.Value) any {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return nil
	}
	n := val.Len()
	if n == 0 {
		return nil
	}

	result := make([]any, n)
	for i := 0; i < n; i++ {
		result[i] = normalize(val.Index(i).Interface())
	}
	return result
}

func normalizeStruct(val reflect.Value) any {
	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, omitEmpty := parseJSONTag(tag)
		if name == "" {
			name = field.Name
		}

		norm := normalize(val.Field(i).Interface())
		if norm == nil {
			continue
		}
		if omitEmpty && isZero(norm) {
			continue
		}
		result[name] = norm
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	for i, part := range splitComma(tag) {
		if i == 0 {
			name = part
		} else if part == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

func splitComma(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func isZero(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(val).IsZero()
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// Document is a map whose JSON encoding always has sorted keys and no
// nil members.
type Document map[string]any

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range keys {
		v := d[k]
		if v == nil {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valJSON, err := json.Marshal(normalize(v))
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
