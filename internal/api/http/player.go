package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/courseplayer/internal/auth/middleware"
	"github.com/mind-engage/courseplayer/internal/grading"
	"github.com/mind-engage/courseplayer/internal/session"
)

// playerFor returns the caller's session for the course in the path, or
// writes the error and returns nil.
func playerFor(mgr *session.Manager, w http.ResponseWriter, r *http.Request) *session.Player {
	learner := auth.SubjectFromContext(r.Context())
	if learner == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil
	}
	p, err := mgr.Player(r.Context(), learner, chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return nil
	}
	return p
}

// GET /courses/{courseID}/player
func PlayerViewHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p := playerFor(mgr, w, r); p != nil {
			writeJSON(w, http.StatusOK, p.View())
		}
	}
}

// POST /courses/{courseID}/lessons/{lessonKey}/open
func OpenLessonHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := playerFor(mgr, w, r)
		if p == nil {
			return
		}
		res, err := p.Open(r.Context(), lessonKey(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /courses/{courseID}/lessons/{lessonKey}/playback  {event, time}
func PlaybackHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Event session.PlaybackEvent `json:"event"`
			Time  float64               `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		switch req.Event {
		case session.EventAdvance, session.EventSeek, session.EventEnded:
		default:
			http.Error(w, "event must be advance, seek or ended", http.StatusBadRequest)
			return
		}
		p := playerFor(mgr, w, r)
		if p == nil {
			return
		}
		res, err := p.Playback(r.Context(), lessonKey(r), req.Event, req.Time)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /courses/{courseID}/lessons/{lessonKey}/submit  {answers}
func SubmitHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers map[string]any `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		p := playerFor(mgr, w, r)
		if p == nil {
			return
		}
		res, err := p.Submit(r.Context(), lessonKey(r), req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /courses/{courseID}/lessons/{lessonKey}/capstone  {checked, link}
func CapstoneHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub grading.CapstoneSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		p := playerFor(mgr, w, r)
		if p == nil {
			return
		}
		res, err := p.SubmitCapstone(r.Context(), lessonKey(r), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /media/resolve?ref=
func ResolveMediaHandler(res session.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := r.URL.Query().Get("ref")
		if ref == "" {
			http.Error(w, "ref required", http.StatusBadRequest)
			return
		}
		u, err := res.Resolve(r.Context(), ref)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": u})
	}
}
