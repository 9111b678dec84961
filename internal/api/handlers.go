package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vovakirdan/subway-runner/internal/scores"
)

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub scores.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	rec, err := s.scores.Submit(r.Context(), sub, s.clientIP(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.logger.Info("score submitted", "id", rec.ID, "score", rec.Score, "player", rec.PlayerName)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r, s.cfg.Server.Scores.DefaultLimit)
	if !ok {
		return
	}
	records, err := s.scores.Leaderboard(r.Context(), limit, offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleFullLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r, 50)
	if !ok {
		return
	}
	board, err := s.scores.FullLeaderboard(r.Context(), limit, offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.scores.PersonalBest(r.Context(), r.PathValue("player_name"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("score_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "score_id must be an integer")
		return
	}
	if err := s.scores.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Score deleted successfully"})
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.scores.StartSession(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startSessionResponse{SessionID: id, Message: "Game session started"})
}

type updateSessionRequest struct {
	GameSpeed        float64 `json:"game_speed"`
	CoinsCollected   int     `json:"coins_collected"`
	ObstaclesAvoided int     `json:"obstacles_avoided"`
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	id := r.PathValue("session_id")
	if err := s.scores.UpdateSession(r.Context(), id, req.GameSpeed, req.CoinsCollected, req.ObstaclesAvoided); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session updated"})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("final_score")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "final_score is required")
		return
	}
	final, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "final_score must be an integer")
		return
	}

	if err := s.scores.EndSession(r.Context(), r.PathValue("session_id"), final); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.scores.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000000Z07:00"),
	})
}

// pageParams reads limit and offset. It writes a 400 and returns false on
// malformed values.
func pageParams(w http.ResponseWriter, r *http.Request, defLimit int) (limit, offset int, ok bool) {
	limit, err := queryInt(r, "limit", defLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	offset, err = queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	if offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must not be negative")
		return 0, 0, false
	}
	return limit, offset, true
}
