package progress

import (
	"encoding/json"
	"fmt"
)

// Sanitize drops nil values from maps, recursively. Array positions are
// kept so answer bags keep their indexes.
func Sanitize(v map[string]any) map[string]any {
	out := make(map[string]any, len(v))
	for k, e := range v {
		if e == nil {
			continue
		}
		out[k] = sanitizeValue(e)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Sanitize(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitizeValue(e)
		}
		return out
	}
	return v
}

// Fields flattens a document into sanitized top-level fields for a merge
// upsert.
func Fields(doc Document) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return Sanitize(m), nil
}

// FromFields is the inverse of Fields.
func FromFields(m map[string]any) (Document, error) {
	var doc Document
	b, err := json.Marshal(m)
	if err != nil {
		return doc, fmt.Errorf("marshal progress fields: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode progress fields: %w", err)
	}
	if doc.Progress.ByLesson == nil {
		doc.Progress.ByLesson = map[string]LessonProgress{}
	}
	return doc, nil
}
