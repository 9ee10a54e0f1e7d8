package server

import (
	"fmt"
	"net/http"

	"github.com/ayusman/fingermath/internal/realtime"
)

// StreamHandler serves camera previews as MJPEG.
type StreamHandler struct {
	previews *realtime.Broadcaster[[]byte]
}

// NewStreamHandler creates a new StreamHandler reading JPEG frames from previews.
func NewStreamHandler(previews *realtime.Broadcaster[[]byte]) *StreamHandler {
	return &StreamHandler{previews: previews}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	frames := h.previews.Subscribe()
	defer h.previews.Unsubscribe(frames)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case jpeg, ok := <-frames:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
				return
			}
			if _, err := w.Write(jpeg); err != nil {
				return
			}
			if _, err := fmt.Fprint(w, "\r\n"); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
