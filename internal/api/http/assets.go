package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/courseplayer/internal/storage"
)

const maxAssetBytes = 512 << 20

// MountAssets serves course media out of the blob store. Reads are public so
// signed media URLs load in a plain <video src>; upload carries the
// authentication and permission chain for PUT.
func MountAssets(r chi.Router, bs storage.BlobStore, upload ...func(http.Handler) http.Handler) {
	// PUT /assets/*   multipart "file"
	r.With(upload...).Put("/*", func(w http.ResponseWriter, r *http.Request) {
		key := assetKey(r)
		if key == "" {
			http.Error(w, "key required", http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxAssetBytes)
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		stored, err := bs.Put(r.Context(), key, f)
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": stored})
	})

	// GET /assets/*   -> the blob at whatever follows /assets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := assetKey(r)
		rc, err := bs.Get(r.Context(), key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", storage.ContentType(key))
		_, _ = io.Copy(w, rc)
	})
}

func assetKey(r *http.Request) string {
	return strings.TrimPrefix(chi.URLParam(r, "*"), "/")
}
