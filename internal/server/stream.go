package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameSource supplies preview snapshots. Acquire/Release bracket each
// consumer so the pipeline only encodes JPEG while someone is watching.
type FrameSource interface {
	AcquireStream()
	ReleaseStream()
	LatestJPEG() []byte
}

// StreamHandler serves the camera preview as an MJPEG stream. It reads
// the pipeline's JPEG snapshots rather than the camera itself, so the
// capture loop stays the device's only reader.
type StreamHandler struct {
	source FrameSource
}

// NewStreamHandler creates a StreamHandler backed by the given source.
func NewStreamHandler(src FrameSource) *StreamHandler {
	return &StreamHandler{source: src}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.source.AcquireStream()
	defer h.source.ReleaseStream()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data := h.source.LatestJPEG()
		if data == nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
