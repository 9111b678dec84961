package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/registry"
	"github.com/vovakirdan/subway-runner/internal/runner"
	"github.com/vovakirdan/subway-runner/internal/scores"
)

// clientMessage is a control frame sent by the browser.
type clientMessage struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Pressed bool   `json:"pressed,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// gameOverMessage is sent once per finished game.
type gameOverMessage struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

// frameWriter is the part of *websocket.Conn a play session writes to.
type frameWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// playSession is one live game bound to one connection. Frames are only
// written from the loop goroutine.
type playSession struct {
	conn     frameWriter
	codec    registry.Codec
	scores   *scores.Service
	logger   *log.Logger
	name     string
	clientIP string
	submit   bool
	cancel   context.CancelFunc
	persist  chan func(context.Context)

	// Loop goroutine only.
	inGame bool
	last   runner.Snapshot

	// Persistence goroutine only.
	sessionID string
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = s.cfg.Server.WebSocket.Format
	}
	codec, err := registry.Create(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seed := time.Now().UnixNano()
	if raw := q.Get("seed"); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
	}

	submit := false
	if raw := q.Get("submit"); raw != "" {
		submit, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "submit must be a boolean")
			return
		}
	}

	wsCfg := s.cfg.Server.WebSocket
	engine, err := runner.New(s.cfg.Runner, core.RuntimeConfig{TickRate: wsCfg.TickRate, Seed: seed})
	if err != nil {
		s.logger.Error("cannot create engine", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot create game")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := &playSession{
		conn:     conn,
		codec:    codec,
		scores:   s.scores,
		logger:   s.logger,
		name:     q.Get("name"),
		clientIP: s.clientIP(r),
		submit:   submit,
		cancel:   cancel,
		persist:  make(chan func(context.Context), 16),
	}

	loop := runner.NewLoop(engine, runner.LoopConfig{
		TickRate:      wsCfg.TickRate,
		SnapshotEvery: wsCfg.SnapshotEvery,
		InputBuffer:   64,
		OnSnapshot:    sess.sendSnapshot,
		OnGameOver:    sess.gameOver,
	})

	s.logger.Info("play session started", "client", sess.clientIP, "format", format, "seed", seed)

	// The ready frame goes out before the loop starts writing.
	sess.sendSnapshot(engine.Snapshot())

	persisted := make(chan struct{})
	go func() {
		defer close(persisted)
		sess.runPersistence()
	}()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		loop.Run(ctx)
	}()

	sess.readInputs(ctx, conn, loop)
	cancel()
	<-stopped
	close(sess.persist)
	<-persisted

	s.logger.Info("play session ended", "client", sess.clientIP)
}

// readInputs forwards client frames to the loop until the connection or
// the session ends.
func (p *playSession) readInputs(ctx context.Context, conn *websocket.Conn, loop *runner.Loop) {
	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			p.logger.Debug("discarding malformed message", "client", p.clientIP, "error", err)
			continue
		}

		in, ok := toInput(msg)
		if !ok {
			p.logger.Debug("discarding unknown message", "client", p.clientIP, "type", msg.Type)
			continue
		}
		if !loop.Send(in) {
			p.logger.Warn("input queue full, dropping input", "client", p.clientIP)
		}
	}
}

func toInput(msg clientMessage) (runner.Input, bool) {
	switch msg.Type {
	case "key":
		return runner.KeyInput(msg.Key, msg.Pressed), msg.Key != ""
	case "start":
		return runner.Input{Kind: runner.InputStart}, true
	case "pause":
		return runner.Input{Kind: runner.InputPause}, true
	case "restart":
		return runner.Input{Kind: runner.InputRestart}, true
	case "power_up":
		kind, err := runner.ParsePowerUpKind(msg.Kind)
		if err != nil {
			return runner.Input{}, false
		}
		return runner.Input{Kind: runner.InputPowerUp, PowerUp: kind}, true
	default:
		return runner.Input{}, false
	}
}

func (p *playSession) messageType() int {
	if p.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (p *playSession) write(v any) {
	data, err := p.codec.Encode(v)
	if err != nil {
		p.logger.Error("cannot encode frame", "error", err)
		return
	}
	if err := p.conn.WriteMessage(p.messageType(), data); err != nil {
		p.cancel()
	}
}

func (p *playSession) sendSnapshot(snap runner.Snapshot) {
	if snap.State == runner.StateRunning.String() && !p.inGame {
		p.inGame = true
		p.enqueue(p.startSession)
	}
	p.last = snap
	p.write(snap)
}

func (p *playSession) gameOver(score int) {
	p.write(gameOverMessage{Type: "game_over", Score: score})
	p.logger.Info("game over", "client", p.clientIP, "score", score)

	p.inGame = false
	last := p.last
	p.enqueue(func(ctx context.Context) {
		p.finishSession(ctx, last, score)
	})
}

// enqueue hands a storage job to the persistence goroutine without
// stalling the tick loop.
func (p *playSession) enqueue(job func(context.Context)) {
	if p.scores == nil {
		return
	}
	select {
	case p.persist <- job:
	default:
		p.logger.Warn("persistence queue full, dropping job", "client", p.clientIP)
	}
}

// runPersistence executes storage jobs in order until the queue is closed.
// The session ID is only touched here.
func (p *playSession) runPersistence() {
	for job := range p.persist {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		job(ctx)
		cancel()
	}
}

func (p *playSession) startSession(ctx context.Context) {
	id, err := p.scores.StartSession(ctx)
	if err != nil {
		p.logger.Warn("cannot start session", "error", err)
		return
	}
	p.sessionID = id
}

func (p *playSession) finishSession(ctx context.Context, last runner.Snapshot, score int) {
	if p.sessionID != "" {
		if err := p.scores.UpdateSession(ctx, p.sessionID, last.GameSpeed, last.CoinsCollected, last.ObstaclesAvoided); err != nil {
			p.logger.Warn("cannot update session", "session", p.sessionID, "error", err)
		}
		if err := p.scores.EndSession(ctx, p.sessionID, score); err != nil {
			p.logger.Warn("cannot end session", "session", p.sessionID, "error", err)
		}
		p.sessionID = ""
	}

	if !p.submit {
		return
	}
	rec, err := p.scores.Submit(ctx, scores.Submission{Score: score, PlayerName: p.name}, p.clientIP)
	if err != nil {
		p.logger.Warn("cannot submit score", "client", p.clientIP, "error", err)
		return
	}
	p.logger.Info("score submitted", "id", rec.ID, "score", rec.Score, "player", rec.PlayerName)
}
