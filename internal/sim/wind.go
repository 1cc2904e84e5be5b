package sim

import (
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
)

// Wind is a horizontal gust that oscillates with the elapsed time.
func Wind(cfg config.WindConfig, elapsed float64) cloth.Vec2 {
	return cloth.V(cfg.Strength*math.Sin(elapsed*cfg.Frequency), 0)
}
