package content

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// object is a loosely typed JSON/YAML mapping. Every accessor treats a
// missing or wrong-typed field as absent.
type object map[string]any

func asObject(v any) object {
	if m, ok := v.(map[string]any); ok {
		return object(m)
	}
	return nil
}

// str returns the first key holding a string.
func (o object) str(keys ...string) string {
	for _, k := range keys {
		if s, ok := o[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (o object) boolean(key string) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

func (o object) list(key string) []any {
	if l, ok := o[key].([]any); ok {
		return l
	}
	return nil
}

func (o object) obj(key string) object {
	return asObject(o[key])
}

func (o object) strings(key string) []string {
	l := o.list(key)
	out := make([]string, 0, len(l))
	for _, e := range l {
		switch v := e.(type) {
		case string:
			out = append(out, v)
		case float64, int, int64, json.Number:
			out = append(out, stringify(v))
		}
	}
	return out
}

func (o object) ints(key string) []int {
	l := o.list(key)
	out := make([]int, 0, len(l))
	for _, e := range l {
		if n, ok := toInt(e); ok {
			out = append(out, n)
		}
	}
	return out
}

// toInt accepts integral JSON/YAML numbers and numeric strings.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := strconv.Atoi(t.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	}
	return ""
}

func hasText(s string) bool { return strings.TrimSpace(s) != "" }
