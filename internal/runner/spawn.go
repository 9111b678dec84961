package runner

import (
	"github.com/vovakirdan/subway-runner/internal/config"
)

// spawnTimers accumulate simulated seconds for the timed policy.
type spawnTimers struct {
	obstacle float64
	coin     float64
	powerUp  float64
}

// spawn runs the configured spawn policy for one tick.
func (e *Engine) spawn(dt float64) {
	switch e.cfg.Spawn.Policy {
	case config.SpawnProbability:
		e.spawnByChance()
	default:
		e.spawnByTimer(dt)
	}

	if e.cfg.PowerUps.Enabled && len(e.powerUpKinds) > 0 {
		e.timers.powerUp += dt
		if e.timers.powerUp >= e.cfg.PowerUps.Interval {
			e.timers.powerUp = 0
			if e.rng.Float64() < e.cfg.PowerUps.Chance {
				kind := e.powerUpKinds[e.rng.Intn(len(e.powerUpKinds))]
				e.powerUps = append(e.powerUps, newPowerUp(kind, e.cfg))
			}
		}
	}
}

// spawnByTimer spawns an obstacle whenever the difficulty-scaled interval
// elapses, and rolls for a coin every coin interval.
func (e *Engine) spawnByTimer(dt float64) {
	sc := e.cfg.Spawn

	e.timers.obstacle += dt
	interval := e.difficulty.SpawnInterval(sc.ObstacleInterval, sc.MinObstacleInterval, e.score, int(e.tick))
	if e.timers.obstacle >= interval {
		e.timers.obstacle = 0
		e.trySpawnObstacle()
	}

	e.timers.coin += dt
	if e.timers.coin >= sc.CoinInterval {
		e.timers.coin = 0
		if e.rng.Float64() < sc.CoinGate {
			e.spawnCoin()
		}
	}
}

// spawnByChance runs one Bernoulli trial per entity kind.
func (e *Engine) spawnByChance() {
	sc := e.cfg.Spawn

	if e.rng.Float64() < e.difficulty.Chance(sc.ObstacleChance, e.score, int(e.tick)) {
		e.trySpawnObstacle()
	}
	if e.rng.Float64() < sc.CoinChance {
		e.spawnCoin()
	}
}

// trySpawnObstacle appends a random obstacle at the spawn edge unless the
// previous one is still within the minimum gap.
func (e *Engine) trySpawnObstacle() bool {
	if n := len(e.obstacles); n > 0 {
		last := e.obstacles[n-1]
		if e.cfg.Field.Width-last.X < e.cfg.Obstacles.MinGap {
			return false
		}
	}

	types := e.cfg.Obstacles.Types
	t := types[e.rng.Intn(len(types))]
	lane := e.rng.Intn(e.laneCount())
	e.obstacles = append(e.obstacles, newObstacle(t, lane, e.cfg.Field))
	return true
}

// spawnCoin appends a coin at a random height inside the configured band.
func (e *Engine) spawnCoin() {
	cc := e.cfg.Coins
	y := e.cfg.Field.GroundY - cc.MinHeight - e.rng.Float64()*(cc.MaxHeight-cc.MinHeight)
	e.coins = append(e.coins, newCoin(y, e.cfg))
}

func (e *Engine) laneCount() int {
	if n := len(e.cfg.Player.Lanes); n > 0 {
		return n
	}
	return 3
}
