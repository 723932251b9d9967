package utils

import "coupleswipe_server/store"

// Helpers for reading loosely-typed document fields. Values read back from
// DynamoDB arrive as float64 / []interface{} / map[string]interface{}, while
// the in-memory store keeps the Go types that were written; both shapes are
// handled here.

// ExtractString safely extracts a string field from a document.
func ExtractString(fields store.Fields, field string) string {
	if v, ok := fields[field].(string); ok {
		return v
	}
	return ""
}

// ExtractBool safely extracts a boolean field from a document.
func ExtractBool(fields store.Fields, field string) bool {
	if v, ok := fields[field].(bool); ok {
		return v
	}
	return false
}

// ExtractFloat safely extracts a numeric field from a document.
func ExtractFloat(fields store.Fields, field string) float64 {
	switch v := fields[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// ExtractStringSlice safely extracts a list-of-strings field from a document.
func ExtractStringSlice(fields store.Fields, field string) []string {
	switch v := fields[field].(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ExtractStringSliceMap safely extracts a map of string lists, the shape the
// invitation filter selections are stored in.
func ExtractStringSliceMap(fields store.Fields, field string) map[string][]string {
	switch v := fields[field].(type) {
	case map[string][]string:
		out := make(map[string][]string, len(v))
		for k, e := range v {
			out[k] = append([]string(nil), e...)
		}
		return out
	case map[string]interface{}:
		out := make(map[string][]string, len(v))
		for k, e := range v {
			switch list := e.(type) {
			case []string:
				out[k] = append([]string(nil), list...)
			case []interface{}:
				values := make([]string, 0, len(list))
				for _, item := range list {
					if s, ok := item.(string); ok {
						values = append(values, s)
					}
				}
				out[k] = values
			}
		}
		return out
	}
	return nil
}
