package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/docstore"
	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/session"
)

const maxCourseBytes = 8 << 20

type CourseSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"`
}

// PutCourseHandler stores an authored course document, JSON or YAML. The
// document is schema-checked and stored as JSON. Open sessions of the course
// are dropped so learners pick up the new snapshot.
func PutCourseHandler(store docstore.Store, mgr *session.Manager, log *logger.Logger) http.HandlerFunc {
	log = logger.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := strings.TrimSpace(chi.URLParam(r, "courseID"))
		if courseID == "" {
			http.Error(w, "course id required", http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCourseBytes))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		doc, err := content.Parse(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// YAML uploads are re-read as JSON so validation and storage see
		// the same values.
		raw, err := json.Marshal(doc)
		if err != nil {
			http.Error(w, "course must be a JSON-compatible document", http.StatusBadRequest)
			return
		}
		if doc, err = content.ParseJSON(raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := content.Validate(doc); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		course := content.Decode(doc)
		if err := store.PutCourse(r.Context(), courseID, course.Title, raw); err != nil {
			log.Error("put course", "course", courseID, "err", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		mgr.Invalidate(courseID)
		log.Info("course stored", "course", courseID, "units", len(course.Units))

		course.ID = courseID
		writeJSON(w, http.StatusOK, session.BuildOutline(course))
	}
}

func ListCoursesHandler(store docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := store.ListCourses(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		out := make([]CourseSummary, 0, len(recs))
		for _, c := range recs {
			out = append(out, CourseSummary{ID: c.ID, Title: c.Title, UpdatedAt: c.UpdatedAt.Unix()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetOutlineHandler returns the numbered outline with answer keys stripped.
func GetOutlineHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := mgr.LoadCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session.BuildOutline(c))
	}
}
