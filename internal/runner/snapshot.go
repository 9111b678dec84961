package runner

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// Field names on the wire are camelCase; msgpack reuses the json tags.
type Snapshot struct {
	State            string         `json:"state"`
	Tick             uint64         `json:"tick"`
	Player           PlayerView     `json:"player"`
	Obstacles        []ObstacleView `json:"obstacles"`
	Coins            []CoinView     `json:"coins"`
	PowerUps         []PowerUpView  `json:"powerUps"`
	Background       BackgroundView `json:"background"`
	Score            int            `json:"score"`
	CoinsCollected   int            `json:"coinsCollected"`
	ObstaclesAvoided int            `json:"obstaclesAvoided"`
	Distance         int            `json:"distance"`
	GameSpeed        float64        `json:"gameSpeed"`
	GameOver         bool           `json:"gameOver"`
	Paused           bool           `json:"paused"`
}

// PlayerView is the rendered player.
type PlayerView struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	W            float64 `json:"w"`
	H            float64 `json:"h"`
	Lane         int     `json:"lane"`
	Grounded     bool    `json:"grounded"`
	VY           float64 `json:"vy"`
	Invulnerable bool    `json:"invulnerable"`
}

// ObstacleView is a rendered obstacle.
type ObstacleView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Type string  `json:"type"`
	Lane int     `json:"lane"`
}

// CoinView is a rendered coin.
type CoinView struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	Rotation  float64 `json:"rotation"`
	Value     int     `json:"value"`
	Collected bool    `json:"collected"`
}

// PowerUpView is a rendered power-up pickup.
type PowerUpView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Kind string  `json:"kind"`
}

// BackgroundView holds the decoration layers.
type BackgroundView struct {
	Buildings    []Building `json:"buildings"`
	Clouds       []Cloud    `json:"clouds"`
	GroundOffset float64    `json:"groundOffset"`
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	obstacles := make([]ObstacleView, len(e.obstacles))
	for i, o := range e.obstacles {
		obstacles[i] = ObstacleView{X: o.X, Y: o.Y, W: o.W, H: o.H, Type: o.Type, Lane: o.Lane}
	}

	coins := make([]CoinView, len(e.coins))
	for i, c := range e.coins {
		coins[i] = CoinView{X: c.X, Y: c.Y, W: c.W, H: c.H, Rotation: c.Rotation, Value: c.Value, Collected: c.Collected}
	}

	powerUps := make([]PowerUpView, len(e.powerUps))
	for i, p := range e.powerUps {
		powerUps[i] = PowerUpView{X: p.X, Y: p.Y, W: p.W, H: p.H, Kind: string(p.Kind)}
	}

	p := e.player
	return Snapshot{
		State: e.state.String(),
		Tick:  e.tick,
		Player: PlayerView{
			X:            p.X,
			Y:            p.Y,
			W:            p.W,
			H:            p.H,
			Lane:         p.Lane,
			Grounded:     p.Grounded,
			VY:           p.VY,
			Invulnerable: e.invulnerableFor > 0,
		},
		Obstacles: obstacles,
		Coins:     coins,
		PowerUps:  powerUps,
		Background: BackgroundView{
			Buildings:    append([]Building(nil), e.bg.Buildings...),
			Clouds:       append([]Cloud(nil), e.bg.Clouds...),
			GroundOffset: e.bg.GroundOffset,
		},
		Score:            e.score,
		CoinsCollected:   e.coinsCollected,
		ObstaclesAvoided: e.obstaclesAvoided,
		Distance:         int(e.distance),
		GameSpeed:        e.speed,
		GameOver:         e.state == StateGameOver,
		Paused:           e.state == StatePaused,
	}
}
