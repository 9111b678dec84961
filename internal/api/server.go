// Package api exposes the score service and live play over HTTP.
//
// REST endpoints live under /api, live games are streamed over the
// WebSocket endpoint /ws/play. All error responses are JSON objects of the
// form {"detail": "..."}.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/scores"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

// Config holds everything the HTTP server needs.
type Config struct {
	Server config.ServerConfig
	Runner config.RunnerConfig
	Logger *log.Logger
}

// Server routes HTTP requests to the score service and the play endpoint.
type Server struct {
	cfg      Config
	scores   *scores.Service
	logger   *log.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	trusted  []netip.Prefix
	now      func() time.Time
}

// NewServer builds the route table.
func NewServer(svc *scores.Service, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		scores: svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		mux: http.NewServeMux(),
		now: time.Now,
	}
	trusted, err := cfg.Server.HTTP.TrustedProxyPrefixes()
	if err != nil {
		logger.Warn("ignoring trusted proxies", "error", err)
	}
	s.trusted = trusted

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/scores/submit", s.handleSubmit)
	s.mux.HandleFunc("GET /api/scores/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("GET /api/scores/leaderboard/full", s.handleFullLeaderboard)
	s.mux.HandleFunc("GET /api/scores/personal-best/{player_name}", s.handlePersonalBest)
	s.mux.HandleFunc("DELETE /api/scores/scores/{score_id}", s.handleDeleteScore)

	s.mux.HandleFunc("POST /api/game/start-session", s.handleStartSession)
	s.mux.HandleFunc("PUT /api/game/update-session/{session_id}", s.handleUpdateSession)
	s.mux.HandleFunc("POST /api/game/end-session/{session_id}", s.handleEndSession)
	s.mux.HandleFunc("GET /api/game/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/game/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/game/schema", s.handleSchema)

	s.mux.HandleFunc("GET /ws/play", s.handlePlay)
}

// ServeHTTP applies CORS and request logging around the route table.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.cors(rec, r)
	if r.Method == http.MethodOptions {
		rec.WriteHeader(http.StatusNoContent)
	} else {
		s.mux.ServeHTTP(rec, r)
	}

	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start).Round(time.Microsecond),
		"client", s.clientIP(r),
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.HTTP.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.scores.PruneLimiter()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) cors(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	allowed := s.cfg.Server.HTTP.CORSOrigins
	switch {
	case slices.Contains(allowed, "*"):
		w.Header().Set("Access-Control-Allow-Origin", "*")
	case origin != "" && slices.Contains(allowed, origin):
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	default:
		return
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the WebSocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("api: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps service errors to status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scores.ErrInvalidScore), errors.Is(err, scores.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, scores.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many submissions, try again later")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// clientIP returns the address rate limits and scores are keyed by. It is
// the socket peer unless that peer is a trusted proxy, in which case the
// X-Forwarded-For chain is walked from the right to the first untrusted hop.
func (s *Server) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !s.isTrusted(host) {
		return host
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			hops = append(hops, strings.TrimSpace(hop))
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if _, err := netip.ParseAddr(hops[i]); err != nil {
			break
		}
		if !s.isTrusted(hops[i]) {
			return hops[i]
		}
	}
	return host
}

func (s *Server) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}
