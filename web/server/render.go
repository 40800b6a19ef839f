package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// DefaultTileSize is the tile edge used when the server is configured without one
const DefaultTileSize = 64

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"` // Pixel origin of the tile
	TileY      int    `json:"tileY"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Completion order (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// FrameComplete is sent once the whole frame has been rendered
type FrameComplete struct {
	ElapsedMs        int64   `json:"elapsedMs"`
	TotalPixels      int     `json:"totalPixels"`
	LitPixels        int     `json:"litPixels"`
	AverageLuminance float64 `json:"averageLuminance"`
	Workers          int     `json:"workers"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders one frame and returns it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	_, raytracer, err := s.newRaytracer(req, nil)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, stats, err := raytracer.RenderFrame(r.Context())
	if err != nil {
		log.Printf("Render of %s failed: %v", req.Scene, err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time", stats.Duration.String())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders one frame and streams tiles, log lines and the
// final statistics as Server-Sent Events
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sseEventChan := make(chan SSEEvent, 100)
	go s.streamRender(ctx, req, sseEventChan)

	// Events are written from this goroutine only, and only while the handler runs
	s.writeSSEEvents(w, ctx, sseEventChan)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// streamRender renders the frame and produces events, closing sseEventChan when done
func (s *Server) streamRender(ctx context.Context, req *RenderRequest, sseEventChan chan<- SSEEvent) {
	defer close(sseEventChan)

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	_, raytracer, err := s.newRaytracer(req, webLogger)
	if err != nil {
		close(consoleChan)
		<-consoleDone
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	totalTiles := len(renderer.NewTileGrid(req.Width, req.Height, s.config.TileSize))
	if s.config.NumWorkers == 1 {
		totalTiles = 1
	}
	tileNumber := 0

	startTime := time.Now()
	webLogger.Printf("Rendering %s at %dx%d from eye (%.2f, %.2f, %.2f)\n",
		req.Scene, req.Width, req.Height, req.Eye.X, req.Eye.Y, req.Eye.Z)

	_, stats, err := raytracer.RenderFrameTiles(ctx, func(tile *renderer.Tile, img *image.RGBA) {
		tileNumber++
		s.handleTileUpdate(ctx, sseEventChan, tile, img, tileNumber, totalTiles)
	})

	close(consoleChan)
	<-consoleDone

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	data, err := json.Marshal(FrameComplete{
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		TotalPixels:      stats.TotalPixels,
		LitPixels:        stats.LitPixels,
		AverageLuminance: stats.AverageLuminance,
		Workers:          stats.Workers,
	})
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// writeSSEEvents writes events until the channel closes or the client disconnects
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, event); err != nil {
				// Client disconnected during write
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// writeSSEEvent writes and flushes a single event
func writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
			// Keep draining so the logger never blocks
		}
	}
}

// handleTileUpdate encodes a finished tile and sends it as an event
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tile *renderer.Tile, img *image.RGBA, tileNumber, totalTiles int) {
	if ctx.Err() != nil {
		return
	}

	tileData, err := s.imageToBase64PNG(img.SubImage(tile.Bounds))
	if err != nil {
		log.Printf("Error encoding tile %d: %v", tile.ID, err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		TileX:      tile.Bounds.Min.X,
		TileY:      tile.Bounds.Min.Y,
		Width:      tile.Bounds.Dx(),
		Height:     tile.Bounds.Dy(),
		ImageData:  tileData,
		TileNumber: tileNumber,
		TotalTiles: totalTiles,
	})
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
