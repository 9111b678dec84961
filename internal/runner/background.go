package runner

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/subway-runner/internal/config"
)

// Building is a skyline block in the far parallax layer.
type Building struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"` // #rrggbb
}

// Cloud is a sky decoration in the slowest parallax layer.
type Cloud struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Background holds the cosmetic layers. It draws from its own RNG so that
// decoration never shifts gameplay randomness.
type Background struct {
	Buildings    []Building
	Clouds       []Cloud
	GroundOffset float64

	cfg    config.BackgroundConfig
	width  float64
	height float64
	rng    *rand.Rand
}

func newBackground(cfg config.BackgroundConfig, field config.FieldConfig, seed int64) *Background {
	b := &Background{cfg: cfg, width: field.Width, height: field.Height}
	b.Reset(seed)
	return b
}

// Reset regenerates every layer from seed.
func (b *Background) Reset(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
	b.GroundOffset = 0

	b.Buildings = make([]Building, b.cfg.Buildings)
	for i := range b.Buildings {
		b.Buildings[i] = Building{
			X:     float64(i * 100),
			Y:     b.buildingY(),
			W:     float64(60 + b.rng.Intn(41)),
			H:     float64(100 + b.rng.Intn(101)),
			Color: b.buildingColor(),
		}
	}

	b.Clouds = make([]Cloud, b.cfg.Clouds)
	for i := range b.Clouds {
		b.Clouds[i] = Cloud{
			X:    float64(b.rng.Intn(int(b.width) + 1)),
			Y:    b.cloudY(),
			Size: float64(30 + b.rng.Intn(31)),
		}
	}
}

// Scroll moves the layers by dx field units with parallax. Decorations that
// leave the field are recycled in place at the right edge.
func (b *Background) Scroll(dx float64) {
	for i := range b.Buildings {
		bl := &b.Buildings[i]
		bl.X -= dx * b.cfg.BuildingParallax
		if bl.X+bl.W < 0 {
			bl.X = b.width
			bl.Y = b.buildingY()
			bl.H = float64(100 + b.rng.Intn(101))
		}
	}

	for i := range b.Clouds {
		c := &b.Clouds[i]
		c.X -= dx * b.cfg.CloudParallax
		if c.X+c.Size < 0 {
			c.X = b.width + float64(b.rng.Intn(201))
			c.Y = b.cloudY()
		}
	}

	if b.cfg.GroundPeriod > 0 {
		b.GroundOffset = math.Mod(b.GroundOffset+dx, b.cfg.GroundPeriod)
	}
}

func (b *Background) buildingY() float64 {
	return b.height - 200 - float64(50+b.rng.Intn(101))
}

func (b *Background) cloudY() float64 {
	return float64(50 + b.rng.Intn(151))
}

func (b *Background) buildingColor() string {
	return fmt.Sprintf("#%02x%02x%02x", 100+b.rng.Intn(156), 100+b.rng.Intn(156), 100+b.rng.Intn(156))
}
