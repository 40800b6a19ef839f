package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Parameter limits shared by all endpoints
const (
	MinSize       = 1
	MaxSize       = 2000
	MaxCoord      = 1000.0
	MinFOV        = 1.0
	MaxFOV        = 179.0
	DefaultWidth  = 400
	DefaultHeight = 300
	DefaultFOV    = 90.0
)

// Server handles web requests for the raytracer
type Server struct {
	port   int
	config renderer.RenderConfig
	mux    *http.ServeMux
}

// NewServer creates a new web server rendering with the given configuration.
// A zero tile size falls back to DefaultTileSize.
func NewServer(port int, config renderer.RenderConfig) *Server {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	s := &Server{port: port, config: config, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ShutdownTimeout bounds how long in-flight requests may take to finish
const ShutdownTimeout = 5 * time.Second

// Start listens on the configured port and serves until ctx is done
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	log.Printf("Starting web server on http://localhost%s", addr)
	return s.Serve(ctx, listener)
}

// Serve serves requests on listener until ctx is done, then shuts down
// gracefully. Request contexts derive from ctx, so running renders are
// cancelled on shutdown. Returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:     s.mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RenderRequest holds the scene and camera parameters common to all render endpoints
type RenderRequest struct {
	Scene  string    `json:"scene"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	FOV    float64   `json:"fov"` // vertical, degrees
	Eye    core.Vec3 `json:"eye"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAll(scene.ScenesDir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"scenes": scenes})
}

// parseRenderRequest parses and validates the common scene parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default"}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, MinSize, MaxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", DefaultHeight, MinSize, MaxSize); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", DefaultFOV, MinFOV, MaxFOV); err != nil {
		return nil, err
	}
	if req.Eye.X, err = parseFloatParam(query, "x", 0, -MaxCoord, MaxCoord); err != nil {
		return nil, err
	}
	if req.Eye.Y, err = parseFloatParam(query, "y", 0, -MaxCoord, MaxCoord); err != nil {
		return nil, err
	}
	if req.Eye.Z, err = parseFloatParam(query, "z", 0, -MaxCoord, MaxCoord); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// camera builds the pinhole camera described by the request
func (req *RenderRequest) camera() *renderer.Camera {
	return renderer.NewCamera(renderer.CameraConfig{
		Eye:    req.Eye,
		Width:  req.Width,
		Height: req.Height,
		VFov:   req.FOV * math.Pi / 180,
	})
}

// newRaytracer creates the scene and raytracer for a request
func (s *Server) newRaytracer(req *RenderRequest, logger core.Logger) (*scene.Scene, *renderer.Raytracer, error) {
	sceneObj, err := scene.CreateByName(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	return sceneObj, renderer.NewRaytracer(sceneObj, req.camera(), s.config, logger), nil
}

// writeJSONError writes an error response as JSON
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
