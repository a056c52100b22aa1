package game

import (
	"math"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/object"
	"github.com/tomz197/beedefense/internal/physics"
)

// Spawner lays out enemy waves on the configured grid.
// Geometry is deterministic; only wobble phases are random.
type Spawner struct {
	cfg config.Game
	rng Rand
	ids object.IDSeq // Shared by every wave so IDs never repeat within a match
}

// NewSpawner creates a spawner for the given tuning.
func NewSpawner(cfg config.Game, rng Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// SpawnWave returns a full rows×cols wave in row-major order.
func (sp *Spawner) SpawnWave() []*object.Enemy {
	g := sp.cfg.Grid
	enemies := make([]*object.Enemy, 0, g.Rows*g.Cols)
	for row := 0; row < g.Rows; row++ {
		kind := object.KindForRow(row)
		for col := 0; col < g.Cols; col++ {
			pos := physics.Vec{
				X: g.StartX + float64(col)*g.SpacingX,
				Y: g.StartY + float64(row)*g.SpacingY,
			}
			phase := sp.rng.Float64() * 2 * math.Pi
			enemies = append(enemies, object.NewEnemy(sp.ids.Next(), kind, pos, phase, sp.cfg))
		}
	}
	return enemies
}
