package prompts

func ObjectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func StringOrNullSchema() map[string]any {
	return map[string]any{
		"type": []any{"string", "null"},
	}
}

func IntOrNullSchema() map[string]any {
	return map[string]any{
		"type": []any{"integer", "null"},
	}
}

func IntSchema() map[string]any {
	return map[string]any{"type": "integer"}
}

func BoolSchema() map[string]any {
	return map[string]any{"type": "boolean"}
}

func StringArraySchema(maxItems int) map[string]any {
	s := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	if maxItems > 0 {
		s["maxItems"] = maxItems
	}
	return s
}

func ArraySchema(items map[string]any, maxItems int) map[string]any {
	s := map[string]any{
		"type":  "array",
		"items": items,
	}
	if maxItems > 0 {
		s["maxItems"] = maxItems
	}
	return s
}

// EnumSchema declares a closed string set. The first value doubles as the
// repair default when the model emits something outside the set, so list the
// most conservative value first.
func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}
