// Package config provides YAML/TOML configuration loading and difficulty
// management for the runner engine and its servers.
package config

// Movement disciplines for the player.
const (
	MovementLanes = "lanes" // Edge-triggered lane switching between fixed slots
	MovementFree  = "free"  // Held-key movement along a continuous x axis
)

// Spawn policies for obstacles and coins.
const (
	SpawnTimed       = "timed"       // Timers accumulate simulated time
	SpawnProbability = "probability" // Independent Bernoulli trials per tick
)

// RunnerConfig contains all configuration for the runner engine.
type RunnerConfig struct {
	Field      FieldConfig      `yaml:"field" toml:"field"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Obstacles  ObstacleConfig   `yaml:"obstacles" toml:"obstacles"`
	Coins      CoinConfig       `yaml:"coins" toml:"coins"`
	PowerUps   PowerUpConfig    `yaml:"power_ups" toml:"power_ups"`
	Spawn      SpawnConfig      `yaml:"spawn" toml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring" toml:"scoring"`
	Background BackgroundConfig `yaml:"background" toml:"background"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// FieldConfig defines the play field in field units (pixels in the browser).
type FieldConfig struct {
	Width   float64 `yaml:"width" toml:"width"`
	Height  float64 `yaml:"height" toml:"height"`
	GroundY float64 `yaml:"ground_y" toml:"ground_y"` // y of the ground line
}

// PlayerConfig defines the player body and its movement discipline.
type PlayerConfig struct {
	X         float64   `yaml:"x" toml:"x"` // Starting left edge for free movement
	Width     float64   `yaml:"width" toml:"width"`
	Height    float64   `yaml:"height" toml:"height"`
	Speed     float64   `yaml:"speed" toml:"speed"`       // Free movement step per reference tick
	Movement  string    `yaml:"movement" toml:"movement"` // "lanes" or "free"
	Lanes     []float64 `yaml:"lanes" toml:"lanes"`       // Lane center x positions
	StartLane int       `yaml:"start_lane" toml:"start_lane"`
}

// PhysicsConfig defines gravity, jumping and scroll speed.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity" toml:"gravity"`
	JumpImpulse   float64 `yaml:"jump_impulse" toml:"jump_impulse"` // Magnitude; applied upward
	BaseSpeed     float64 `yaml:"base_speed" toml:"base_speed"`
	MaxSpeed      float64 `yaml:"max_speed" toml:"max_speed"`
	SpeedIncrease float64 `yaml:"speed_increase" toml:"speed_increase"` // Per simulated second
	ReferenceRate int     `yaml:"reference_rate" toml:"reference_rate"` // Ticks/s the per-tick constants are tuned for
}

// ObstacleType describes one obstacle variant.
type ObstacleType struct {
	Name      string  `yaml:"name" toml:"name"`
	Width     float64 `yaml:"width" toml:"width"`
	Height    float64 `yaml:"height" toml:"height"`
	Elevation float64 `yaml:"elevation" toml:"elevation"` // Gap between the ground and the obstacle bottom
}

// ObstacleConfig defines obstacle variants and spacing.
type ObstacleConfig struct {
	Types  []ObstacleType `yaml:"types" toml:"types"`
	MinGap float64        `yaml:"min_gap" toml:"min_gap"` // Minimum distance from the spawn edge to the last obstacle
}

// CoinConfig defines coin size, value and vertical band.
type CoinConfig struct {
	Size         float64 `yaml:"size" toml:"size"`
	Value        int     `yaml:"value" toml:"value"`
	MinHeight    float64 `yaml:"min_height" toml:"min_height"` // Lowest coin top above ground
	MaxHeight    float64 `yaml:"max_height" toml:"max_height"` // Highest coin top above ground
	RotationStep float64 `yaml:"rotation_step" toml:"rotation_step"`
}

// PowerUpConfig defines collectible power-ups.
type PowerUpConfig struct {
	Enabled          bool     `yaml:"enabled" toml:"enabled"`
	Kinds            []string `yaml:"kinds" toml:"kinds"`
	Size             float64  `yaml:"size" toml:"size"`
	Interval         float64  `yaml:"interval" toml:"interval"` // Seconds between spawn rolls
	Chance           float64  `yaml:"chance" toml:"chance"`
	Height           float64  `yaml:"height" toml:"height"` // Bottom above ground
	InvulnerableFor  float64  `yaml:"invulnerable_for" toml:"invulnerable_for"`
	SpeedBoostFactor float64  `yaml:"speed_boost_factor" toml:"speed_boost_factor"`
}

// SpawnConfig selects and tunes the spawn policy.
type SpawnConfig struct {
	Policy string `yaml:"policy" toml:"policy"` // "timed" or "probability"

	// Timed policy
	ObstacleInterval    float64 `yaml:"obstacle_interval" toml:"obstacle_interval"`
	MinObstacleInterval float64 `yaml:"min_obstacle_interval" toml:"min_obstacle_interval"`
	CoinInterval        float64 `yaml:"coin_interval" toml:"coin_interval"`
	CoinGate            float64 `yaml:"coin_gate" toml:"coin_gate"`

	// Probability policy
	ObstacleChance float64 `yaml:"obstacle_chance" toml:"obstacle_chance"`
	CoinChance     float64 `yaml:"coin_chance" toml:"coin_chance"`
}

// ScoringConfig defines passive score gain.
type ScoringConfig struct {
	PerTick int `yaml:"per_tick" toml:"per_tick"`
}

// BackgroundConfig defines the cosmetic parallax layers.
type BackgroundConfig struct {
	Buildings        int     `yaml:"buildings" toml:"buildings"`
	Clouds           int     `yaml:"clouds" toml:"clouds"`
	BuildingParallax float64 `yaml:"building_parallax" toml:"building_parallax"`
	CloudParallax    float64 `yaml:"cloud_parallax" toml:"cloud_parallax"`
	GroundPeriod     float64 `yaml:"ground_period" toml:"ground_period"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ChanceMultiplier float64 `yaml:"chance_multiplier" toml:"chance_multiplier"` // Added to the obstacle chance factor at max difficulty
}

// ServerConfig configures the HTTP, WebSocket and SSH front ends.
type ServerConfig struct {
	HTTP      HTTPConfig      `yaml:"http" toml:"http"`
	Scores    ScoresConfig    `yaml:"scores" toml:"scores"`
	WebSocket WebSocketConfig `yaml:"websocket" toml:"websocket"`
	SSH       SSHConfig       `yaml:"ssh" toml:"ssh"`
	DBPath    string          `yaml:"db" toml:"db"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Address     string   `yaml:"address" toml:"address"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For header
	// is believed. Empty means clients are keyed by their socket address.
	TrustedProxies []string `yaml:"trusted_proxies" toml:"trusted_proxies"`
}

// ScoresConfig configures submission validation and rate limiting.
type ScoresConfig struct {
	MaxScore      int `yaml:"max_score" toml:"max_score"`
	MaxNameLength int `yaml:"max_name_length" toml:"max_name_length"`
	RateLimit     int `yaml:"rate_limit" toml:"rate_limit"`       // Submissions per window per IP
	RateWindow    int `yaml:"rate_window" toml:"rate_window"`     // Window in seconds
	DefaultLimit  int `yaml:"default_limit" toml:"default_limit"` // Leaderboard page size
	MaxLimit      int `yaml:"max_limit" toml:"max_limit"`         // Upper bound for requested page size
}

// WebSocketConfig configures live play sessions.
type WebSocketConfig struct {
	Format        string `yaml:"format" toml:"format"`                 // Default snapshot codec
	SnapshotEvery int    `yaml:"snapshot_every" toml:"snapshot_every"` // Send one snapshot per N ticks
	TickRate      int    `yaml:"tick_rate" toml:"tick_rate"`
}

// SSHConfig configures the terminal play server.
type SSHConfig struct {
	Address     string `yaml:"address" toml:"address"`
	HostKeyPath string `yaml:"host_key" toml:"host_key"`
	IdleTimeout int    `yaml:"idle_timeout" toml:"idle_timeout"` // Minutes
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
