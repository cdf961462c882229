package repair

import (
	"encoding/json"
	"strings"
)

// Package repair normalizes model output against the same schema map that was
// sent with the request. Repairs never fail; the worst a broken field gets is
// its schema default.

// Parse decodes raw model text into an object. It tolerates code fences and
// leading prose around the JSON body. ok is false when nothing parseable is
// found; callers then fall back to repairing an empty object.
func Parse(raw string) (map[string]any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// Object coerces obj field-by-field against schema (a json-schema object map).
// The returned map has every required property present with a value of the
// declared type. repaired reports whether anything had to change.
func Object(obj map[string]any, schema map[string]any) (map[string]any, bool) {
	props, _ := schema["properties"].(map[string]any)
	out := make(map[string]any, len(props))
	repaired := false
	if obj == nil {
		obj = map[string]any{}
		repaired = true
	}
	for key, ps := range props {
		fieldSchema, ok := ps.(map[string]any)
		if !ok {
			continue
		}
		v, r := coerce(obj[key], fieldSchema)
		out[key] = v
		repaired = repaired || r
	}
	return out, repaired
}

func coerce(v any, schema map[string]any) (any, bool) {
	switch primaryType(schema) {
	case "string":
		return coerceString(v, schema)
	case "integer":
		return coerceInt(v, schema)
	case "number":
		return coerceNumber(v, schema)
	case "boolean":
		return coerceBool(v, schema)
	case "array":
		return coerceArray(v, schema)
	case "object":
		obj, _ := v.(map[string]any)
		return Object(obj, schema)
	default:
		return v, false
	}
}

// primaryType resolves "type": "string" and "type": ["string","null"] alike,
// returning the first non-null type name.
func primaryType(schema map[string]any) string {
	switch t := schema["type"].(type) {
	case string:
		return t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s != "null" {
				return s
			}
		}
	case []string:
		for _, s := range t {
			if s != "null" {
				return s
			}
		}
	}
	return ""
}

func nullable(schema map[string]any) bool {
	switch t := schema["type"].(type) {
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s == "null" {
				return true
			}
		}
	case []string:
		for _, s := range t {
			if s == "null" {
				return true
			}
		}
	}
	return false
}

func enumValues(schema map[string]any) []string {
	raw, ok := schema["enum"].([]any)
	if !ok {
		return nil
	}
	vals := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			vals = append(vals, s)
		}
	}
	return vals
}

func coerceString(v any, schema map[string]any) (any, bool) {
	enums := enumValues(schema)
	s, ok := v.(string)
	if !ok {
		if v == nil && nullable(schema) {
			return nil, false
		}
		if len(enums) > 0 {
			return enums[0], true
		}
		if nullable(schema) {
			return nil, true
		}
		return "", true
	}
	trimmed := strings.TrimSpace(s)
	if len(enums) > 0 {
		for _, e := range enums {
			if trimmed == e {
				return e, trimmed != s
			}
		}
		return enums[0], true
	}
	if trimmed == "" && nullable(schema) {
		return nil, true
	}
	return trimmed, trimmed != s
}

func coerceInt(v any, schema map[string]any) (any, bool) {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return i, float64(i) != n
	case int:
		return n, false
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), false
		}
	case nil:
		if nullable(schema) {
			return nil, false
		}
	}
	if nullable(schema) {
		return nil, true
	}
	return 0, true
}

func coerceNumber(v any, schema map[string]any) (any, bool) {
	switch n := v.(type) {
	case float64:
		return n, false
	case int:
		return float64(n), false
	case nil:
		if nullable(schema) {
			return nil, false
		}
	}
	if nullable(schema) {
		return nil, true
	}
	return float64(0), true
}

func coerceBool(v any, schema map[string]any) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, false
	}
	if v == nil && nullable(schema) {
		return nil, false
	}
	return false, true
}

// coerceArray always yields a []any. Elements failing their item schema are
// dropped rather than defaulted: a half-broken list entry is worse than a
// shorter list. maxItems from the schema caps the result.
func coerceArray(v any, schema map[string]any) (any, bool) {
	itemSchema, _ := schema["items"].(map[string]any)
	arr, ok := v.([]any)
	if !ok {
		return []any{}, v != nil || !ok
	}
	repaired := false
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		kept, r, drop := coerceElement(el, itemSchema)
		if drop {
			repaired = true
			continue
		}
		repaired = repaired || r
		out = append(out, kept)
	}
	if max, ok := maxItems(schema); ok && len(out) > max {
		out = out[:max]
		repaired = true
	}
	return out, repaired
}

func coerceElement(el any, itemSchema map[string]any) (v any, repaired, drop bool) {
	if itemSchema == nil {
		return el, false, false
	}
	switch primaryType(itemSchema) {
	case "string":
		s, ok := el.(string)
		if !ok {
			return nil, false, true
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil, false, true
		}
		if enums := enumValues(itemSchema); len(enums) > 0 {
			for _, e := range enums {
				if trimmed == e {
					return e, trimmed != s, false
				}
			}
			return nil, false, true
		}
		return trimmed, trimmed != s, false
	case "object":
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, false, true
		}
		if !hasRequired(obj, itemSchema) {
			return nil, false, true
		}
		fixed, r := Object(obj, itemSchema)
		return fixed, r, false
	case "integer":
		switch n := el.(type) {
		case float64:
			return int(n), float64(int(n)) != n, false
		case int:
			return n, false, false
		}
		return nil, false, true
	default:
		fixed, r := coerce(el, itemSchema)
		return fixed, r, false
	}
}

// hasRequired checks the element's required keys are present and non-empty
// before spending a repair on it.
func hasRequired(obj map[string]any, schema map[string]any) bool {
	req, ok := schema["required"].([]string)
	if !ok {
		if raw, ok2 := schema["required"].([]any); ok2 {
			for _, e := range raw {
				if s, ok3 := e.(string); ok3 {
					req = append(req, s)
				}
			}
		}
	}
	for _, key := range req {
		v, present := obj[key]
		if !present || v == nil {
			return false
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

func maxItems(schema map[string]any) (int, bool) {
	switch m := schema["maxItems"].(type) {
	case int:
		return m, true
	case float64:
		return int(m), true
	}
	return 0, false
}

// StringsOf extracts a coerced string array field as []string.
func StringsOf(obj map[string]any, key string) []string {
	arr, _ := obj[key].([]any)
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ObjectsOf extracts a coerced object array field as []map[string]any.
func ObjectsOf(obj map[string]any, key string) []map[string]any {
	arr, _ := obj[key].([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// StringOf returns the string value at key, or "" when null/absent.
func StringOf(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// BoolOf returns the bool value at key.
func BoolOf(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

// IntPtrOf returns the integer value at key, or nil when null/absent.
func IntPtrOf(obj map[string]any, key string) *int {
	switch n := obj[key].(type) {
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

// StringPtrOf returns the string value at key, or nil when null/absent.
func StringPtrOf(obj map[string]any, key string) *string {
	if s, ok := obj[key].(string); ok {
		return &s
	}
	return nil
}
