package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/fingermath/internal/store"
)

// RecordingHandler handles HTTP requests for recording resources.
type RecordingHandler struct {
	store *store.Store
}

// NewRecordingHandler creates a new RecordingHandler with the given store.
func NewRecordingHandler(s *store.Store) *RecordingHandler {
	return &RecordingHandler{store: s}
}

// RegisterRoutes mounts the handler on r.
func (h *RecordingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/recordings", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/frames", h.frames)
		r.Delete("/{id}", h.delete)
	})
}

type listRecordingsResponse struct {
	Recordings []*store.Recording `json:"recordings"`
}

type framesResponse struct {
	Recording *store.Recording `json:"recording"`
	Frames    []store.Frame    `json:"frames"`
}

// list handles GET /api/recordings.
func (h *RecordingHandler) list(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}
	if recordings == nil {
		recordings = []*store.Recording{}
	}
	writeJSON(w, http.StatusOK, listRecordingsResponse{Recordings: recordings})
}

// get handles GET /api/recordings/{id}.
func (h *RecordingHandler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Recordings().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "Failed to get recording")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// frames handles GET /api/recordings/{id}/frames.
func (h *RecordingHandler) frames(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to get recording")
		return
	}
	frames, err := h.store.Recordings().Frames(id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to get frames")
		return
	}
	if frames == nil {
		frames = []store.Frame{}
	}
	writeJSON(w, http.StatusOK, framesResponse{Recording: rec, Frames: frames})
}

// delete handles DELETE /api/recordings/{id}.
func (h *RecordingHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Recordings().Delete(chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err, "Failed to delete recording")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordingHandler) writeStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Recording not found")
		return
	}
	writeError(w, http.StatusInternalServerError, message)
}
