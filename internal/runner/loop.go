package runner

import (
	"context"
	"time"
)

// InputKind identifies what an Input carries.
type InputKind int

const (
	InputKey     InputKind = iota // Key transition, browser key code
	InputStart                    // Leave the ready state
	InputPause                    // Toggle pause
	InputRestart                  // Restart from Running or GameOver
	InputPowerUp                  // Activate a power-up
)

// Input is a queued command for the engine owned by a Loop.
type Input struct {
	Kind    InputKind
	Key     string
	Pressed bool
	PowerUp PowerUpKind
}

// KeyInput builds a key transition input.
func KeyInput(key string, pressed bool) Input {
	return Input{Kind: InputKey, Key: key, Pressed: pressed}
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	TickRate      int            // Ticks per second; dt is fixed at 1/TickRate
	SnapshotEvery int            // Deliver every Nth snapshot (state changes always delivered)
	InputBuffer   int            // Capacity of the input queue
	OnSnapshot    func(Snapshot) // Called from the loop goroutine
	OnGameOver    func(score int)
}

// DefaultLoopConfig returns a 60 Hz loop that delivers every snapshot.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickRate:      60,
		SnapshotEvery: 1,
		InputBuffer:   64,
	}
}

// Loop drives one Engine at a fixed rate. Inputs sent from other goroutines
// are queued and applied at the start of the next tick, so the engine itself
// is only ever touched by the goroutine running the loop.
type Loop struct {
	engine *Engine
	cfg    LoopConfig
	dt     float64
	inputs chan Input

	lastState State
}

// NewLoop wraps engine. The loop owns the engine from here on.
func NewLoop(engine *Engine, cfg LoopConfig) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 1
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = 64
	}
	return &Loop{
		engine:    engine,
		cfg:       cfg,
		dt:        1.0 / float64(cfg.TickRate),
		inputs:    make(chan Input, cfg.InputBuffer),
		lastState: engine.State(),
	}
}

// Send queues an input for the next tick. It never blocks and reports
// false when the queue is full and the input was dropped.
func (l *Loop) Send(in Input) bool {
	select {
	case l.inputs <- in:
		return true
	default:
		return false
	}
}

// Run ticks until ctx is cancelled and returns ctx.Err().
// Wall-clock jitter never changes the simulated step.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.tick()
		}
	}
}

// Step runs n ticks synchronously and returns the last snapshot.
// It must not be called while Run is active.
func (l *Loop) Step(n int) Snapshot {
	snap := l.engine.Snapshot()
	for range n {
		snap = l.tick()
	}
	return snap
}

// Engine returns the owned engine. Only safe to use when Run is not active.
func (l *Loop) Engine() *Engine {
	return l.engine
}

func (l *Loop) tick() Snapshot {
	l.drainInputs()

	snap := l.engine.Update(l.dt)
	state := l.engine.State()
	changed := state != l.lastState
	l.lastState = state

	if l.cfg.OnSnapshot != nil && (changed || snap.Tick%uint64(l.cfg.SnapshotEvery) == 0) {
		l.cfg.OnSnapshot(snap)
	}
	if changed && state == StateGameOver && l.cfg.OnGameOver != nil {
		l.cfg.OnGameOver(snap.Score)
	}
	return snap
}

func (l *Loop) drainInputs() {
	for {
		select {
		case in := <-l.inputs:
			l.apply(in)
		default:
			return
		}
	}
}

func (l *Loop) apply(in Input) {
	switch in.Kind {
	case InputKey:
		l.engine.SetKeyState(in.Key, in.Pressed)
	case InputStart:
		l.engine.Start()
	case InputPause:
		l.engine.PauseToggle()
	case InputRestart:
		l.engine.Restart()
	case InputPowerUp:
		l.engine.ActivatePowerUp(in.PowerUp)
	}
}
