package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	_ "github.com/vovakirdan/subway-runner/internal/codec"
	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/scores"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *scores.Service) {
	t.Helper()
	return newTestServerWith(t, func(*config.ServerConfig) {})
}

func newTestServerWith(t *testing.T, mutate func(*config.ServerConfig)) (*Server, *scores.Service) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	serverCfg := config.DefaultServerConfig()
	mutate(&serverCfg)
	svc := scores.NewService(store, serverCfg.Scores)
	srv := NewServer(svc, Config{
		Server: serverCfg,
		Runner: config.DefaultRunnerConfig(),
		Logger: log.New(io.Discard),
	})
	return srv, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("cannot decode %q: %v", rec.Body.String(), err)
	}
}

func TestSubmitScore(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/scores/submit", `{"score": 420, "player_name": "alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var got storage.ScoreRecord
	decodeBody(t, rec, &got)
	if got.Score != 420 || got.PlayerName != "alice" || got.ID == 0 {
		t.Errorf("record = %+v", got)
	}
}

func TestSubmitScoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"negative", `{"score": -5}`, http.StatusBadRequest},
		{"too high", `{"score": 1000001}`, http.StatusBadRequest},
		{"long name", `{"score": 1, "player_name": "` + strings.Repeat("n", 51) + `"}`, http.StatusBadRequest},
		{"malformed", `{"score": "lots"}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			rec := do(t, srv, http.MethodPost, "/api/scores/submit", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, expected %d", rec.Code, tc.status)
			}
			var e errorResponse
			decodeBody(t, rec, &e)
			if e.Detail == "" {
				t.Error("error response should carry a detail")
			}
		})
	}
}

func TestSubmitRateLimited(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 0; i < 5; i++ {
		if rec := do(t, srv, http.MethodPost, "/api/scores/submit", `{"score": 1}`); rec.Code != http.StatusOK {
			t.Fatalf("submission %d status = %d", i+1, rec.Code)
		}
	}
	if rec := do(t, srv, http.MethodPost, "/api/scores/submit", `{"score": 1}`); rec.Code != http.StatusTooManyRequests {
		t.Errorf("6th submission status = %d, expected 429", rec.Code)
	}
}

func TestLeaderboardEndpoints(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := t.Context()
	for i, score := range []int{10, 40, 30, 20} {
		ip := "10.0.0." + string(rune('1'+i))
		if _, err := svc.Submit(ctx, scores.Submission{Score: score}, ip); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	rec := do(t, srv, http.MethodGet, "/api/scores/leaderboard?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var top []storage.ScoreRecord
	decodeBody(t, rec, &top)
	if len(top) != 2 || top[0].Score != 40 || top[1].Score != 30 {
		t.Errorf("top = %+v", top)
	}

	rec = do(t, srv, http.MethodGet, "/api/scores/leaderboard/full?limit=2&offset=2", "")
	var full scores.Leaderboard
	decodeBody(t, rec, &full)
	if full.TotalCount != 4 || len(full.Scores) != 2 || full.Scores[0].Score != 20 {
		t.Errorf("full = %+v", full)
	}

	if rec := do(t, srv, http.MethodGet, "/api/scores/leaderboard?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/scores/leaderboard?offset=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("negative offset status = %d", rec.Code)
	}
}

func TestPersonalBestAndDelete(t *testing.T) {
	srv, svc := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/api/scores/personal-best/nobody", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown player status = %d, expected 404", rec.Code)
	}

	saved, err := svc.Submit(t.Context(), scores.Submission{Score: 77, PlayerName: "zoe"}, "1.1.1.1")
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	rec := do(t, srv, http.MethodGet, "/api/scores/personal-best/zoe", "")
	var best storage.ScoreRecord
	decodeBody(t, rec, &best)
	if best.ID != saved.ID {
		t.Errorf("best = %+v", best)
	}

	path := "/api/scores/scores/" + jsonNumber(saved.ID)
	if rec := do(t, srv, http.MethodDelete, path, ""); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, expected 404", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/api/scores/scores/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, expected 400", rec.Code)
	}
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestSessionEndpoints(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/game/start-session", "")
	var started startSessionResponse
	decodeBody(t, rec, &started)
	if started.SessionID == "" || started.Message == "" {
		t.Fatalf("start-session = %+v", started)
	}

	rec = do(t, srv, http.MethodPut, "/api/game/update-session/"+started.SessionID, `{"game_speed": 8.5, "coins_collected": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}
	rec = do(t, srv, http.MethodPost, "/api/game/end-session/"+started.SessionID+"?final_score=900", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d, body %s", rec.Code, rec.Body)
	}

	sess, err := svc.Session(t.Context(), started.SessionID)
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}
	if !sess.Completed || *sess.FinalScore != 900 || *sess.MaxSpeed != 8.5 || sess.CoinsCollected != 3 {
		t.Errorf("session = %+v", sess)
	}

	missing := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/api/game/update-session/missing", `{"game_speed": 1}`},
		{http.MethodPost, "/api/game/end-session/missing?final_score=1", ""},
	}
	for _, m := range missing {
		if rec := do(t, srv, m.method, m.path, m.body); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, expected 404", m.method, m.path, rec.Code)
		}
	}

	if rec := do(t, srv, http.MethodPost, "/api/game/end-session/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing final_score status = %d, expected 400", rec.Code)
	}
}

func TestStatsAndHealth(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.Submit(t.Context(), scores.Submission{Score: 10, PlayerName: "a"}, "1")
	svc.Submit(t.Context(), scores.Submission{Score: 20, PlayerName: "b"}, "2")

	var stats storage.GameStats
	decodeBody(t, do(t, srv, http.MethodGet, "/api/game/stats", ""), &stats)
	if stats.TotalGames != 2 || stats.HighestScore != 20 || stats.AverageScore != 15 || stats.TotalPlayers != 2 {
		t.Errorf("stats = %+v", stats)
	}

	srv.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	var health healthResponse
	decodeBody(t, do(t, srv, http.MethodGet, "/api/game/health", ""), &health)
	if health.Status != "healthy" || !strings.HasPrefix(health.Timestamp, "2024-05-01T10:00:00") {
		t.Errorf("health = %+v", health)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/game/schema", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, field := range []string{`"gameSpeed"`, `"coinsCollected"`, `"obstacles"`, `"groundOffset"`} {
		if !strings.Contains(body, field) {
			t.Errorf("schema is missing %s", field)
		}
	}
}

func TestCORSAndPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/scores/submit", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv, http.MethodGet, "/api/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/scores/submit", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	direct, _ := newTestServer(t)
	proxied, _ := newTestServerWith(t, func(c *config.ServerConfig) {
		c.HTTP.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1"}
	})

	tests := []struct {
		name   string
		srv    *Server
		remote string
		xff    []string
		want   string
	}{
		{"no proxies configured", direct, "198.51.100.2:4000", nil, "198.51.100.2"},
		{"forged header ignored", direct, "198.51.100.2:4000", []string{"192.0.2.1"}, "198.51.100.2"},
		{"untrusted peer", proxied, "198.51.100.2:4000", []string{"192.0.2.1"}, "198.51.100.2"},
		{"trusted peer", proxied, "127.0.0.1:4000", []string{"192.0.2.1"}, "192.0.2.1"},
		{"rightmost untrusted hop", proxied, "10.0.0.5:4000", []string{"203.0.113.9, 192.0.2.1, 10.0.0.7"}, "192.0.2.1"},
		{"multiple header values", proxied, "10.0.0.5:4000", []string{"203.0.113.9", "192.0.2.1"}, "192.0.2.1"},
		{"garbage hop stops the walk", proxied, "10.0.0.5:4000", []string{"192.0.2.1, junk"}, "10.0.0.5"},
		{"trusted peer without header", proxied, "127.0.0.1:4000", nil, "127.0.0.1"},
		{"port-less remote", direct, "198.51.100.2", nil, "198.51.100.2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if got := tc.srv.clientIP(req); got != tc.want {
				t.Errorf("clientIP = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestSubmitRateLimitIgnoresForwardedFor(t *testing.T) {
	srv, _ := newTestServer(t)

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/scores/submit", strings.NewReader(`{"score": 1}`))
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 5 {
		t.Errorf("accepted %d submissions from one peer, expected 5", accepted)
	}
}

