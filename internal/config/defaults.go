package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
// It mirrors defaults/runner.yaml.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Field: FieldConfig{
			Width:   800,
			Height:  400,
			GroundY: 360,
		},
		Player: PlayerConfig{
			X:         100,
			Width:     40,
			Height:    60,
			Speed:     8,
			Movement:  MovementLanes,
			Lanes:     []float64{150, 350, 550},
			StartLane: 1,
		},
		Physics: PhysicsConfig{
			Gravity:       0.8,
			JumpImpulse:   15,
			BaseSpeed:     5,
			MaxSpeed:      15,
			SpeedIncrease: 0.1,
			ReferenceRate: 60,
		},
		Obstacles: ObstacleConfig{
			Types: []ObstacleType{
				{Name: "barrier", Width: 40, Height: 80, Elevation: 0},
				{Name: "train", Width: 90, Height: 55, Elevation: 0},
				{Name: "sign", Width: 60, Height: 30, Elevation: 90},
			},
			MinGap: 150,
		},
		Coins: CoinConfig{
			Size:         20,
			Value:        10,
			MinHeight:    40,
			MaxHeight:    160,
			RotationStep: 0.1,
		},
		PowerUps: PowerUpConfig{
			Enabled:          true,
			Kinds:            []string{"invulnerability", "speed_boost", "coin_magnet"},
			Size:             24,
			Interval:         10,
			Chance:           0.3,
			Height:           60,
			InvulnerableFor:  3,
			SpeedBoostFactor: 1.5,
		},
		Spawn: SpawnConfig{
			Policy:              SpawnTimed,
			ObstacleInterval:    2.0,
			MinObstacleInterval: 0.5,
			CoinInterval:        1.5,
			CoinGate:            0.7,
			ObstacleChance:      0.02,
			CoinChance:          0.015,
		},
		Scoring: ScoringConfig{
			PerTick: 1,
		},
		Background: BackgroundConfig{
			Buildings:        10,
			Clouds:           5,
			BuildingParallax: 0.5,
			CloudParallax:    0.2,
			GroundPeriod:     100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  ProgressionTime,
				MaxAt: 2700, // 45 seconds at 60 ticks/s
			},
			Scaling: ScalingConfig{
				ChanceMultiplier: 1.0,
			},
		},
	}
}

// DefaultServerConfig returns the default server configuration.
// It mirrors defaults/server.yaml.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTP: HTTPConfig{
			Address:     ":8000",
			CORSOrigins: []string{"*"},
		},
		Scores: ScoresConfig{
			MaxScore:      1000000,
			MaxNameLength: 50,
			RateLimit:     5,
			RateWindow:    60,
			DefaultLimit:  10,
			MaxLimit:      100,
		},
		WebSocket: WebSocketConfig{
			Format:        "json",
			SnapshotEvery: 1,
			TickRate:      60,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKeyPath: "~/.runner/ssh_host_ed25519",
			IdleTimeout: 30,
		},
		DBPath: "~/.runner/scores.db",
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name
// ("runner" or "server").
func GetDefaultYAML(name string) []byte {
	switch name {
	case "runner":
		return defaultRunnerYAML
	case "server":
		return defaultServerYAML
	default:
		return nil
	}
}
