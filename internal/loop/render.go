package loop

import (
	"github.com/tomz197/beedefense/internal/draw"
	"github.com/tomz197/beedefense/internal/game"
	"github.com/tomz197/beedefense/internal/physics"
)

// renderSnapshot paints a match onto the canvas. Particles go last so
// explosions show over what they came from. They are smaller than a
// sub-pixel at any render size, so each one is a single dot.
func renderSnapshot(c *draw.Canvas, snap game.Snapshot) {
	fill := func(r physics.Rect, color string, alpha float64) {
		c.FillRect(r.X, r.Y, r.W, r.H, c.Ink(color, alpha))
	}

	for _, e := range snap.Enemies {
		fill(e.Rect, e.Color, 1)
	}
	if !snap.Terminal || len(snap.Particles) == 0 {
		fill(snap.Player.Rect, snap.Player.Color, 1)
	}
	for _, b := range snap.Bullets {
		fill(b.Rect, b.Color, 1)
	}
	for _, p := range snap.Particles {
		center := p.Rect.Center()
		c.SetFloat(center.X, center.Y, c.Ink(p.Color, p.Alpha))
	}
}
