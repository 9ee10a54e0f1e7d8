package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/fingers"
	"github.com/ayusman/fingermath/internal/game"
)

// maxFrameBytes bounds a posted frame; 21 joints fit in well under 4 KiB.
const maxFrameBytes = 64 << 10

// Game is the running session. *game.Loop implements it.
type Game interface {
	Snapshot() game.Snapshot
	Restart()
}

// FrameSink accepts frames from external landmark sources.
type FrameSink interface {
	HandleRecord(detector.FrameRecord) fingers.Result
}

// GameHandler serves the game state and its commands.
type GameHandler struct {
	game   Game
	frames FrameSink
	now    func() time.Time
}

// NewGameHandler creates a GameHandler. frames may be nil, in which case
// posting frames is not offered.
func NewGameHandler(g Game, frames FrameSink) *GameHandler {
	return &GameHandler{game: g, frames: frames, now: time.Now}
}

// RegisterRoutes mounts the handler on r.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.state)
	r.Post("/restart", h.restart)
	if h.frames != nil {
		r.Post("/frames", h.postFrame)
	}
}

type classifyResponse struct {
	Count       int     `json:"count"`
	Valid       bool    `json:"valid"`
	Orientation string  `json:"orientation"`
	Extended    [5]bool `json:"extended"`
}

// state handles GET /api/state.
func (h *GameHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.game.Snapshot())
}

// restart handles POST /api/restart and returns the fresh state.
func (h *GameHandler) restart(w http.ResponseWriter, r *http.Request) {
	h.game.Restart()
	writeJSON(w, http.StatusOK, h.game.Snapshot())
}

// postFrame handles POST /api/frames. A missing detectedAt is stamped with
// the arrival time.
func (h *GameHandler) postFrame(w http.ResponseWriter, r *http.Request) {
	var rec detector.FrameRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFrameBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if rec.DetectedAt == 0 {
		rec.DetectedAt = h.now().UnixMilli()
	}

	res := h.frames.HandleRecord(rec)
	writeJSON(w, http.StatusAccepted, classifyResponse{
		Count:       res.Count,
		Valid:       res.Valid,
		Orientation: res.Orientation.String(),
		Extended:    res.Extended,
	})
}
