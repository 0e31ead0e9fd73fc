package persistence

import (
	"encoding/json"
	"strconv"
)

// toInt64 normalizes the numeric representations a document field can carry
// after JSON decoding or a store round-trip. Strings are not accepted here;
// query-parameter coercion is the builder's job.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
		return 0, false
	case float32:
		if float64(v) == float64(int64(v)) {
			return int64(v), true
		}
		return 0, false
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceInt64 additionally accepts base-10 strings; used for untrusted query
// parameters where numeric values arrive as text.
func coerceInt64(value any) (int64, bool) {
	if n, ok := toInt64(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// CoerceBool normalizes the boolean forms an active/status parameter can take:
// a native bool or the strings "true", "false", "1", "0".
func CoerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
