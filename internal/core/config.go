package core

import "time"

// RuntimeConfig contains configuration passed to the engine and its drivers.
// Renderers use the screen size; the engine only reads TickRate and Seed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters (terminal renderers)
	ScreenH  int   // Screen height in characters (terminal renderers)
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Timestep returns the fixed simulated step in seconds.
func (c RuntimeConfig) Timestep() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// TickInterval returns the wall-clock interval between ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
