// Package apiserver exposes the renderer over a small HTTP API.
package apiserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"pianotiles/config"
	"pianotiles/midiparser"
	"pianotiles/tilerenderer"
)

// Server serves render requests using a fixed, validated configuration.
// Renders run synchronously inside the request; concurrent requests are
// safe because every render writes frames to its own directory.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *mux.Router
}

// New creates a Server with its routes registered.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, log: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/render", s.handleRender).Methods(http.MethodPost, http.MethodOptions)
	r.Use(mux.CORSMethodMiddleware(r), allowAllOrigins)
	s.router = r

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr and serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("running api server", slog.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

type renderRequest struct {
	MidiPath   string `json:"midi_path"`
	OutputPath string `json:"output_path"`
}

type renderResponse struct {
	OutputPath  string  `json:"output_path"`
	Frames      int     `json:"frames"`
	DurationSec float64 `json:"duration_sec"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MidiPath == "" || req.OutputPath == "" {
		writeError(w, http.StatusBadRequest, "midi_path and output_path are required")
		return
	}

	parsed, err := midiparser.ParseFile(req.MidiPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rend, err := tilerenderer.New(s.cfg, parsed, s.log)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tilerenderer.ErrNoRenderableNotes) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	s.log.Info("render requested",
		slog.String("midi", req.MidiPath),
		slog.String("output", req.OutputPath))

	if err := rend.Render(req.OutputPath); err != nil {
		s.log.Error("render failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		OutputPath:  req.OutputPath,
		Frames:      rend.FrameCount(),
		DurationSec: rend.Duration(),
	})
}
