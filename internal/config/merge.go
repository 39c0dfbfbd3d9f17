package config

// DeepMerge merges override onto base and returns a new map; neither
// input is mutated. Nested maps merge recursively. Arrays and scalars
// in override replace the base value wholesale. A nil value in override
// is treated as absent and does not erase the base value (JSON null
// decodes to nil, so an explicit null cannot clear a key either).
func DeepMerge(base, override map[string]any) map[string]any {
	result := cloneMap(base)
	if result == nil {
		result = make(map[string]any)
	}
	for key, overVal := range override {
		if overVal == nil {
			continue
		}

		overMap, overIsMap := overVal.(map[string]any)
		baseMap, baseIsMap := result[key].(map[string]any)
		if overIsMap && baseIsMap {
			result[key] = DeepMerge(baseMap, overMap)
			continue
		}
		result[key] = cloneValue(overVal)
	}
	return result
}

// cloneValue creates a deep copy of a value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
