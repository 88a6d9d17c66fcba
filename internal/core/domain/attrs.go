package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// ParseAttrs decodes a request body that must be a JSON object.
func ParseAttrs(body []byte) (map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrNotJSON
	}
	var attrs map[string]any
	if err := json.Unmarshal(body, &attrs); err != nil || attrs == nil {
		return nil, ErrNotJSON
	}
	return attrs, nil
}

func setString(attrs map[string]any, key string, dst *string) error {
	raw, ok := attrs[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case nil:
		*dst = ""
	case string:
		*dst = v
	default:
		return Invalid(key)
	}
	return nil
}

func setInt(attrs map[string]any, key string, dst *int) error {
	raw, ok := attrs[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case nil:
		*dst = 0
	case int:
		*dst = v
	case int32:
		*dst = int(v)
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return Invalid(key)
		}
		*dst = int(v)
	case float64:
		// -MinInt is 2^63 on 64-bit platforms, the first value past MaxInt.
		if v != math.Trunc(v) || v < math.MinInt || v >= -float64(math.MinInt) {
			return Invalid(key)
		}
		*dst = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return Invalid(key)
		}
		*dst = n
	default:
		return Invalid(key)
	}
	return nil
}

func setFloat(attrs map[string]any, key string, dst *float64) error {
	raw, ok := attrs[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case nil:
		*dst = 0
	case float64:
		*dst = v
	case float32:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	case int32:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Invalid(key)
		}
		*dst = f
	default:
		return Invalid(key)
	}
	return nil
}

// stringList reads an array of strings; other element types are rejected.
func stringList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return []string{}, true
	case []string:
		return append([]string{}, v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// applyAll runs setters in order and stops at the first error.
func applyAll(setters ...func() error) error {
	for _, set := range setters {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}
