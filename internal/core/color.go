package core

// Color represents a foreground color for a screen cell.
// Renderers map it to ANSI 256-color codes.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorBrown
)

// Colors for runner entities.
const (
	ColorPlayer       = ColorCyan
	ColorPlayerShield = ColorMagenta
	ColorBarrier      = ColorRed
	ColorTrain        = ColorOrange
	ColorSign         = ColorBrown
	ColorCoin         = ColorYellow
	ColorPowerUp      = ColorGreen
	ColorBuilding     = ColorGray
	ColorCloud        = ColorWhite
	ColorGround       = ColorBrown
	ColorHUD          = ColorWhite
)

// ObstacleColor returns the draw color for an obstacle type name.
func ObstacleColor(kind string) Color {
	switch kind {
	case "barrier":
		return ColorBarrier
	case "train":
		return ColorTrain
	case "sign":
		return ColorSign
	default:
		return ColorRed
	}
}
