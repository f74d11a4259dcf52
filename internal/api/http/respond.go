package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/courseplayer/internal/docstore"
	"github.com/mind-engage/courseplayer/internal/grading"
	"github.com/mind-engage/courseplayer/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, session.ErrUnknownLesson):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrLessonLocked), errors.Is(err, session.ErrMediaNotFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNoVideo),
		errors.Is(err, session.ErrUseCapstone),
		errors.Is(err, grading.ErrNotCapstone):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// lessonKey reads the {lessonKey} path parameter. Keys contain "::" and
// may arrive percent-encoded.
func lessonKey(r *http.Request) string {
	raw := chi.URLParam(r, "lessonKey")
	if k, err := url.PathUnescape(raw); err == nil {
		return k
	}
	return raw
}
