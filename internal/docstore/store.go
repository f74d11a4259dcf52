// Package docstore persists authored courses and learner progress. Progress
// writes are merge-upserts keyed by (learner, course).
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mind-engage/courseplayer/internal/progress"
)

var ErrNotFound = errors.New("not found")

type CourseRecord struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Raw       json.RawMessage `json:"raw"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Store interface {
	progress.Store
	PutCourse(ctx context.Context, id, title string, raw json.RawMessage) error
	GetCourse(ctx context.Context, id string) (CourseRecord, error)
	ListCourses(ctx context.Context) ([]CourseRecord, error)
}

// mergeFields applies a progress upsert to an existing document. Top-level
// fields are replaced, except progress.byLesson which merges per lesson.
func mergeFields(cur, upd map[string]any) map[string]any {
	out := make(map[string]any, len(cur)+len(upd))
	for k, v := range cur {
		out[k] = v
	}
	for k, v := range upd {
		if k == "progress" {
			out[k] = mergeProgress(asMap(cur[k]), asMap(v))
			continue
		}
		out[k] = v
	}
	return out
}

func mergeProgress(cur, upd map[string]any) map[string]any {
	if cur == nil {
		return upd
	}
	if upd == nil {
		return cur
	}
	out := make(map[string]any, len(cur)+len(upd))
	for k, v := range cur {
		out[k] = v
	}
	for k, v := range upd {
		if k != "byLesson" {
			out[k] = v
			continue
		}
		lessons := map[string]any{}
		for lk, lv := range asMap(cur["byLesson"]) {
			lessons[lk] = lv
		}
		for lk, lv := range asMap(v) {
			lessons[lk] = lv
		}
		out[k] = lessons
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
