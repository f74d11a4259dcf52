package grading

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Answers arrive JSON-decoded, so numbers are float64 and map keys are
// strings. These helpers accept those shapes and their native Go forms.

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := strconv.Atoi(t.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
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

func toIntSlice(v interface{}) ([]int, bool) {
	switch t := v.(type) {
	case []int:
		return t, true
	case []interface{}:
		out := make([]int, 0, len(t))
		for _, e := range t {
			n, ok := toInt(e)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	default:
		return nil, false
	}
}

// toIndexMap reads a left-index to right-index mapping, either as an object
// with numeric keys or as an array indexed by left position.
func toIndexMap(v interface{}) (map[int]int, bool) {
	switch t := v.(type) {
	case map[int]int:
		return t, true
	case map[string]interface{}:
		out := make(map[int]int, len(t))
		for k, e := range t {
			left, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				return nil, false
			}
			right, ok := toInt(e)
			if !ok {
				return nil, false
			}
			out[left] = right
		}
		return out, true
	case []interface{}:
		out := make(map[int]int, len(t))
		for i, e := range t {
			if e == nil {
				continue
			}
			right, ok := toInt(e)
			if !ok {
				return nil, false
			}
			out[i] = right
		}
		return out, true
	default:
		return nil, false
	}
}
