package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedRunnerYAMLMatchesDefaults(t *testing.T) {
	var fromYAML RunnerConfig
	if err := yaml.Unmarshal(GetDefaultYAML("runner"), &fromYAML); err != nil {
		t.Fatalf("embedded runner.yaml does not parse: %v", err)
	}
	if want := DefaultRunnerConfig(); !reflect.DeepEqual(fromYAML, want) {
		t.Errorf("embedded runner.yaml differs from DefaultRunnerConfig\n got: %+v\nwant: %+v", fromYAML, want)
	}
}

func TestEmbeddedServerYAMLMatchesDefaults(t *testing.T) {
	var fromYAML ServerConfig
	if err := yaml.Unmarshal(GetDefaultYAML("server"), &fromYAML); err != nil {
		t.Fatalf("embedded server.yaml does not parse: %v", err)
	}
	if want := DefaultServerConfig(); !reflect.DeepEqual(fromYAML, want) {
		t.Errorf("embedded server.yaml differs from DefaultServerConfig\n got: %+v\nwant: %+v", fromYAML, want)
	}
	if GetDefaultYAML("unknown") != nil {
		t.Error("unknown config name should have no embedded YAML")
	}
}

func TestDefaultRunnerConfigIsValid(t *testing.T) {
	if err := DefaultRunnerConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadRunnerPartialYAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "runner.yaml", `
physics:
  max_speed: 20
player:
  movement: free
`)

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner: %v", err)
	}
	if cfg.Physics.MaxSpeed != 20 {
		t.Errorf("max_speed = %v, expected 20", cfg.Physics.MaxSpeed)
	}
	if cfg.Player.Movement != MovementFree {
		t.Errorf("movement = %q, expected free", cfg.Player.Movement)
	}
	// Untouched values keep their defaults
	if cfg.Physics.Gravity != 0.8 || cfg.Field.GroundY != 360 {
		t.Errorf("defaults lost: gravity=%v ground_y=%v", cfg.Physics.Gravity, cfg.Field.GroundY)
	}
	if len(cfg.Obstacles.Types) != 3 {
		t.Errorf("obstacle types = %d, expected 3", len(cfg.Obstacles.Types))
	}
}

func TestLoadRunnerTOML(t *testing.T) {
	path := writeFile(t, "runner.toml", `
[spawn]
policy = "probability"
obstacle_chance = 0.05

[difficulty.progression]
type = "score"
max_at = 500
`)

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner: %v", err)
	}
	if cfg.Spawn.Policy != SpawnProbability || cfg.Spawn.ObstacleChance != 0.05 {
		t.Errorf("spawn = %+v", cfg.Spawn)
	}
	if cfg.Difficulty.Progression.Type != ProgressionScore || cfg.Difficulty.Progression.MaxAt != 500 {
		t.Errorf("progression = %+v", cfg.Difficulty.Progression)
	}
	if cfg.Spawn.CoinChance != 0.015 {
		t.Errorf("coin_chance default lost, got %v", cfg.Spawn.CoinChance)
	}
}

func TestLoadRunnerErrors(t *testing.T) {
	if _, err := LoadRunner(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}

	bad := writeFile(t, "bad.yaml", "physics: [not, a, map")
	if _, err := LoadRunner(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

	invalid := writeFile(t, "invalid.yaml", "spawn:\n  policy: sometimes\n")
	_, err := LoadRunner(invalid)
	if err == nil || !strings.Contains(err.Error(), "sometimes") {
		t.Errorf("unknown policy should fail validation, got %v", err)
	}
}

func TestLoadServerOverlay(t *testing.T) {
	path := writeFile(t, "server.yaml", "http:\n  address: \":9000\"\nscores:\n  rate_limit: 2\n")

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.HTTP.Address != ":9000" || cfg.Scores.RateLimit != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Scores.MaxScore != 1000000 || cfg.WebSocket.Format != "json" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadServerRejectsBadTrustedProxy(t *testing.T) {
	path := writeFile(t, "server.yaml", "http:\n  trusted_proxies: [\"not-an-ip\"]\n")
	if _, err := LoadServer(path); err == nil {
		t.Error("LoadServer should reject an invalid trusted proxy")
	}
}

func TestTrustedProxyPrefixes(t *testing.T) {
	cfg := HTTPConfig{TrustedProxies: []string{"127.0.0.1", "10.1.2.3/8", "::1"}}
	prefixes, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		t.Fatalf("TrustedProxyPrefixes: %v", err)
	}

	want := []string{"127.0.0.1/32", "10.0.0.0/8", "::1/128"}
	if len(prefixes) != len(want) {
		t.Fatalf("got %d prefixes, expected %d", len(prefixes), len(want))
	}
	for i, p := range prefixes {
		if p.String() != want[i] {
			t.Errorf("prefix %d = %s, expected %s", i, p, want[i])
		}
	}

	if prefixes, err := (HTTPConfig{}).TrustedProxyPrefixes(); err != nil || len(prefixes) != 0 {
		t.Errorf("empty config = %v, %v", prefixes, err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
	}{
		{"no lanes", func(c *RunnerConfig) { c.Player.Lanes = nil }},
		{"start lane out of range", func(c *RunnerConfig) { c.Player.StartLane = 3 }},
		{"unknown movement", func(c *RunnerConfig) { c.Player.Movement = "teleport" }},
		{"zero reference rate", func(c *RunnerConfig) { c.Physics.ReferenceRate = 0 }},
		{"max below base", func(c *RunnerConfig) { c.Physics.MaxSpeed = 1 }},
		{"no obstacle types", func(c *RunnerConfig) { c.Obstacles.Types = nil }},
		{"inverted coin band", func(c *RunnerConfig) { c.Coins.MinHeight = 500 }},
		{"ground below field", func(c *RunnerConfig) { c.Field.GroundY = 1000 }},
		{"zero interval", func(c *RunnerConfig) { c.Spawn.ObstacleInterval = 0 }},
		{"negative buildings", func(c *RunnerConfig) { c.Background.Buildings = -1 }},
		{"negative clouds", func(c *RunnerConfig) { c.Background.Clouds = -3 }},
		{"lane past left edge", func(c *RunnerConfig) { c.Player.Lanes = []float64{10, 350, 550} }},
		{"lane past right edge", func(c *RunnerConfig) { c.Player.Lanes = []float64{150, 350, 790} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyRunnerPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
		{DifficultyFixed, false, 0.0},
	}

	for _, tc := range tests {
		cfg := DefaultRunnerConfig()
		ApplyRunnerPreset(&cfg, tc.preset)
		if cfg.Difficulty.Enabled != tc.enabled || cfg.Difficulty.InitialLevel != tc.level {
			t.Errorf("%s: enabled=%v level=%v, expected %v/%v",
				tc.preset, cfg.Difficulty.Enabled, cfg.Difficulty.InitialLevel, tc.enabled, tc.level)
		}
	}

	cfg := DefaultRunnerConfig()
	ApplyRunnerPreset(&cfg, "")
	if !reflect.DeepEqual(cfg, DefaultRunnerConfig()) {
		t.Error("empty preset should leave config untouched")
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("ParsePreset(hard)")
	}
	if ParsePreset("nightmare") != "" {
		t.Error("unknown preset should parse to empty")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/.runner/scores.db"); got != filepath.Join(home, ".runner", "scores.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("absolute path changed: %q", got)
	}
}
