package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadRunner loads the runner engine configuration.
// Search order: customPath -> ~/.runner/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are decoded on top of DefaultRunnerConfig, so partial files only override what they set.
func LoadRunner(customPath string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := load("runner", customPath, defaultRunnerYAML, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadServer loads the HTTP/WebSocket/SSH server configuration.
// Search order: customPath -> ~/.runner/configs/server.yaml -> ./configs/server.yaml -> embedded default.
func LoadServer(customPath string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := load("server", customPath, defaultServerYAML, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// load decodes the first config found for name into dst.
// Only a failing customPath is reported; the search locations fall through silently.
func load(name, customPath string, embedded []byte, dst any) error {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decode(customPath, data, dst); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return nil
	}

	candidates := make([]string, 0, 4)
	for _, ext := range []string{".yaml", ".toml"} {
		if p := userConfigPath(name + ext); p != "" {
			candidates = append(candidates, p)
		}
	}
	candidates = append(candidates,
		filepath.Join("configs", name+".yaml"),
		filepath.Join("configs", name+".toml"),
	)

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := decode(p, data, dst); err == nil {
			return nil
		}
	}

	// Use embedded default YAML; the hardcoded defaults already in dst are the fallback
	_ = yaml.Unmarshal(embedded, dst)
	return nil
}

// decode picks a format by file extension. Anything not .toml is YAML.
func decode(path string, data []byte, dst any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), dst)
		return err
	}
	return yaml.Unmarshal(data, dst)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runner", "configs", filename)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ApplyRunnerPreset modifies the config based on a difficulty preset.
func ApplyRunnerPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// Validate reports configuration values the engine cannot run with.
func (c RunnerConfig) Validate() error {
	var errs []error

	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field size must be positive, got %vx%v", c.Field.Width, c.Field.Height))
	}
	if c.Field.GroundY <= c.Player.Height || c.Field.GroundY > c.Field.Height {
		errs = append(errs, fmt.Errorf("ground_y %v must be in (player height, field height]", c.Field.GroundY))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player size must be positive"))
	}

	switch c.Player.Movement {
	case MovementLanes:
		if len(c.Player.Lanes) == 0 {
			errs = append(errs, errors.New("lanes movement requires at least one lane"))
		} else if c.Player.StartLane < 0 || c.Player.StartLane >= len(c.Player.Lanes) {
			errs = append(errs, fmt.Errorf("start_lane %d out of range [0, %d)", c.Player.StartLane, len(c.Player.Lanes)))
		}
		half := c.Player.Width / 2
		for i, center := range c.Player.Lanes {
			if center-half < 0 || center+half > c.Field.Width {
				errs = append(errs, fmt.Errorf("lane %d at %v does not fit a %v wide player in the field", i, center, c.Player.Width))
			}
		}
	case MovementFree:
	default:
		errs = append(errs, fmt.Errorf("unknown movement %q", c.Player.Movement))
	}

	switch c.Spawn.Policy {
	case SpawnTimed:
		if c.Spawn.ObstacleInterval <= 0 || c.Spawn.CoinInterval <= 0 {
			errs = append(errs, errors.New("timed spawn intervals must be positive"))
		}
	case SpawnProbability:
	default:
		errs = append(errs, fmt.Errorf("unknown spawn policy %q", c.Spawn.Policy))
	}

	if c.Physics.ReferenceRate <= 0 {
		errs = append(errs, errors.New("reference_rate must be positive"))
	}
	if c.Physics.BaseSpeed < 0 || c.Physics.MaxSpeed < c.Physics.BaseSpeed {
		errs = append(errs, fmt.Errorf("speeds must satisfy 0 <= base_speed (%v) <= max_speed (%v)", c.Physics.BaseSpeed, c.Physics.MaxSpeed))
	}
	if len(c.Obstacles.Types) == 0 {
		errs = append(errs, errors.New("at least one obstacle type is required"))
	}
	if c.Coins.MinHeight > c.Coins.MaxHeight {
		errs = append(errs, errors.New("coins min_height must not exceed max_height"))
	}
	if c.Background.Buildings < 0 || c.Background.Clouds < 0 {
		errs = append(errs, fmt.Errorf("background counts must not be negative, got %d buildings and %d clouds",
			c.Background.Buildings, c.Background.Clouds))
	}

	return errors.Join(errs...)
}

// Validate reports server settings that cannot be used.
func (c ServerConfig) Validate() error {
	if _, err := c.HTTP.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies. A bare IP becomes a
// single-address prefix.
func (c HTTPConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: expected an IP or CIDR", entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}
