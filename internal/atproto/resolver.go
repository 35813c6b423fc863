// Package atproto converts raw AT-Protocol records (profiles, posts,
// feed-view wrappers, notifications, embeds, facets) into the canonical
// model. Records arrive either as decoded JSON maps or as typed structs,
// in snake_case or camelCase naming; the field resolver below absorbs the
// difference so nothing else in the package touches raw fields directly.
package atproto

import (
	"encoding/json"
	"reflect"
	"strings"
	"unicode"
)

// Field reads a named field off a record, trying the exact name first, then
// the alternate-case spelling (snake_case ⇄ camelCase). A nil record or a
// missing field yields (nil, false); it never panics.
func Field(rec any, name string) (any, bool) {
	if isNil(rec) {
		return nil, false
	}

	if v, ok := fieldExact(rec, name); ok {
		return v, true
	}

	if alt := alternateCase(name); alt != name {
		return fieldExact(rec, alt)
	}
	return nil, false
}

// Str resolves a field as a string, falling back to def for missing or
// non-string values.
func Str(rec any, name, def string) string {
	v, ok := Field(rec, name)
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Int64 resolves a field as an int64. JSON decoding produces float64, so
// numeric kinds are coerced.
func Int64(rec any, name string, def int64) int64 {
	v, ok := Field(rec, name)
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// Rec resolves a field as a nested record, or nil.
func Rec(rec any, name string) any {
	v, ok := Field(rec, name)
	if !ok {
		return nil
	}
	if isNil(v) {
		return nil
	}
	return v
}

// List resolves a field as a sequence of records, or nil.
func List(rec any, name string) []any {
	v, ok := Field(rec, name)
	if !ok || isNil(v) {
		return nil
	}
	if items, ok := v.([]any); ok {
		return items
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// TypeTag resolves the $type discriminator of a record.
func TypeTag(rec any) string {
	return Str(rec, "$type", "")
}

func fieldExact(rec any, name string) (any, bool) {
	if m, ok := rec.(map[string]any); ok {
		v, ok := m[name]
		return v, ok
	}

	rv := reflect.ValueOf(rec)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if structFieldName(f) == name {
				return rv.Field(i).Interface(), true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// structFieldName is the wire name of a struct field: the json tag when
// present, else the Go name with its first rune lowered.
func structFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return lowerFirst(f.Name)
}

// alternateCase converts snake_case to camelCase and back.
func alternateCase(name string) string {
	if strings.Contains(name, "_") {
		return toCamel(name)
	}
	return toSnake(name)
}

func toCamel(snake string) string {
	parts := strings.Split(snake, "_")
	out := parts[0]
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		out += strings.ToUpper(p[:1]) + p[1:]
	}
	return out
}

func toSnake(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// isNil reports whether v is nil, including typed-nil pointers and maps
// hiding behind an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
