// Package runner implements the endless-runner simulation.
//
// An Engine is a single-threaded, tick-driven state machine. It owns the
// player, the scrolling entities and the progression counters, and exposes
// its state as read-only Snapshot copies. It does no I/O and takes no locks;
// Loop drives one from its own goroutine.
package runner

import (
	"math/rand"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
)

// State is the engine lifecycle state.
type State int

const (
	StateReady State = iota
	StateRunning
	StatePaused
	StateGameOver
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Engine runs one game session.
type Engine struct {
	cfg     config.RunnerConfig
	runtime core.RuntimeConfig

	state State
	tick  uint64

	player       Player
	obstacles    []Obstacle
	coins        []Coin
	powerUps     []PowerUp
	powerUpKinds []PowerUpKind
	bg           *Background

	keys       *core.KeySet
	rng        *rand.Rand // Gameplay randomness only
	difficulty *config.DifficultyManager
	timers     spawnTimers

	score            int
	coinsCollected   int
	obstaclesAvoided int
	distance         float64
	speed            float64
	invulnerableFor  float64 // Remaining seconds
}

// New creates an engine in the Ready state.
// The runtime seed drives every random choice, so equal seeds and equal
// input sequences produce identical games.
func New(cfg config.RunnerConfig, runtime core.RuntimeConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kinds := make([]PowerUpKind, 0, len(cfg.PowerUps.Kinds))
	for _, name := range cfg.PowerUps.Kinds {
		k, err := ParsePowerUpKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}

	e := &Engine{
		cfg:          cfg,
		runtime:      runtime,
		powerUpKinds: kinds,
		keys:         core.NewKeySet(),
		difficulty:   config.NewDifficultyManager(cfg.Difficulty),
		bg:           newBackground(cfg.Background, cfg.Field, decorationSeed(runtime.Seed)),
	}
	e.reset()
	return e, nil
}

// decorationSeed derives the background seed so that decoration and
// gameplay draw from independent streams.
func decorationSeed(seed int64) int64 {
	return seed ^ 0x5bd1e995
}

// reset puts every entity and counter back to construction defaults.
func (e *Engine) reset() {
	e.state = StateReady
	e.tick = 0
	e.player = newPlayer(e.cfg)
	e.obstacles = nil
	e.coins = nil
	e.powerUps = nil
	e.rng = rand.New(rand.NewSource(e.runtime.Seed))
	e.bg.Reset(decorationSeed(e.runtime.Seed))
	e.timers = spawnTimers{}
	e.score = 0
	e.coinsCollected = 0
	e.obstaclesAvoided = 0
	e.distance = 0
	e.speed = e.cfg.Physics.BaseSpeed
	e.invulnerableFor = 0
	e.keys.ClearEdges()
}

// Start leaves the Ready state. It is a no-op in any other state.
func (e *Engine) Start() {
	if e.state != StateReady {
		return
	}
	e.keys.ClearEdges()
	e.state = StateRunning
}

// PauseToggle switches between Running and Paused.
// Ready and GameOver are unaffected.
func (e *Engine) PauseToggle() {
	switch e.state {
	case StateRunning:
		e.state = StatePaused
	case StatePaused:
		e.state = StateRunning
	default:
		return
	}
	e.keys.ClearEdges()
}

// Restart resets the session and starts running immediately. It only acts
// in Running and GameOver; Ready waits for Start and Paused only answers
// PauseToggle.
func (e *Engine) Restart() {
	if e.state != StateRunning && e.state != StateGameOver {
		return
	}
	e.reset()
	e.state = StateRunning
}

// SetKeyState records a key transition using browser key codes.
// Jump and lane edges are consumed by the next Update; pause, restart and
// start act immediately. Unbound keys are ignored.
func (e *Engine) SetKeyState(key string, pressed bool) {
	if !pressed {
		e.keys.Release(key)
		return
	}

	action, edge := e.keys.Press(key)
	if !edge {
		return
	}

	switch action {
	case core.ActionPause:
		e.keys.TakeEdge(action)
		e.PauseToggle()
	case core.ActionRestart:
		e.keys.TakeEdge(action)
		e.Restart()
	case core.ActionStart:
		e.keys.TakeEdge(action)
		e.Start()
	}
}

// Update advances the simulation by dt seconds and returns the new state.
// Outside the Running state it returns the current snapshot unchanged.
func (e *Engine) Update(dt float64) Snapshot {
	if e.state != StateRunning || dt <= 0 {
		return e.Snapshot()
	}

	// Per-tick constants are tuned for the reference rate
	scale := dt * float64(e.cfg.Physics.ReferenceRate)
	e.tick++

	e.movePlayer(scale)
	if e.keys.TakeEdge(core.ActionJump) {
		e.player.jump(e.cfg.Physics.JumpImpulse)
	}
	e.player.applyPhysics(e.cfg.Physics.Gravity, e.cfg.Field.GroundY, scale)

	dx := e.speed * scale
	var passed int
	e.obstacles, passed = advanceObstacles(e.obstacles, dx)
	e.coins = advanceCoins(e.coins, dx, e.cfg.Coins.RotationStep*scale)
	e.powerUps = advancePowerUps(e.powerUps, dx)
	e.bg.Scroll(dx)

	e.spawn(dt)

	pr := e.player.Rect()
	if e.invulnerableFor <= 0 && firstHit(e.obstacles, pr) >= 0 {
		e.state = StateGameOver
		return e.Snapshot()
	}

	coins := make([]Coin, 0, len(e.coins))
	for _, c := range e.coins {
		if pr.Intersects(c.Rect()) {
			e.collectCoin(&c)
			continue
		}
		coins = append(coins, c)
	}
	e.coins = coins

	var picked []PowerUpKind
	powerUps := make([]PowerUp, 0, len(e.powerUps))
	for _, p := range e.powerUps {
		if pr.Intersects(p.Rect()) {
			picked = append(picked, p.Kind)
			continue
		}
		powerUps = append(powerUps, p)
	}
	e.powerUps = powerUps
	for _, k := range picked {
		e.ActivatePowerUp(k)
	}

	e.score += e.cfg.Scoring.PerTick
	e.distance += dx
	if e.speed < e.cfg.Physics.MaxSpeed {
		e.speed = min(e.speed+e.cfg.Physics.SpeedIncrease*dt, e.cfg.Physics.MaxSpeed)
	}
	e.obstaclesAvoided += passed
	if e.invulnerableFor > 0 {
		e.invulnerableFor = max(0, e.invulnerableFor-dt)
	}

	return e.Snapshot()
}

// movePlayer applies horizontal input for the configured movement discipline.
func (e *Engine) movePlayer(scale float64) {
	left := e.keys.TakeEdge(core.ActionLeft)
	right := e.keys.TakeEdge(core.ActionRight)

	if e.cfg.Player.Movement == config.MovementFree {
		var dx float64
		if e.keys.Held(core.ActionLeft) {
			dx -= e.cfg.Player.Speed * scale
		}
		if e.keys.Held(core.ActionRight) {
			dx += e.cfg.Player.Speed * scale
		}
		e.player.moveFree(dx, e.cfg.Field.Width)
		return
	}

	// One lane per tick; opposite presses cancel
	switch {
	case left && !right:
		e.player.switchLane(-1, e.cfg.Player.Lanes)
	case right && !left:
		e.player.switchLane(1, e.cfg.Player.Lanes)
	}
}

func (e *Engine) collectCoin(c *Coin) {
	if c.Collected {
		return
	}
	c.Collected = true
	e.coinsCollected++
	e.score += c.Value
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// FinalScore returns the score and true once the game is over.
func (e *Engine) FinalScore() (int, bool) {
	if e.state != StateGameOver {
		return 0, false
	}
	return e.score, true
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.RunnerConfig {
	return e.cfg
}
