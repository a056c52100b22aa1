package object

import (
	"math"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/physics"
)

// Kind is the enemy variant, which fixes its score value and color.
type Kind int

const (
	KindSwarm Kind = iota // Rank-and-file bee
	KindElite             // Hornet
	KindBoss              // Queen
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElite:
		return "elite"
	case KindBoss:
		return "boss"
	default:
		return "swarm"
	}
}

// KindForRow maps a grid row to the kind spawned there: bosses lead, elites
// follow, the rest is swarm.
func KindForRow(row int) Kind {
	switch row {
	case 0:
		return KindBoss
	case 1:
		return KindElite
	default:
		return KindSwarm
	}
}

// Enemy is a member of the descending formation.
type Enemy struct {
	Entity
	Kind        Kind
	ScoreValue  int     // Awarded when a player bullet destroys it
	PhaseOffset float64 // Per-enemy wobble phase, radians
	Wobble      float64 // Current cosmetic vertical offset; never part of Rect
}

// NewEnemy creates an enemy of the given kind with its top-left at pos.
func NewEnemy(id uint64, kind Kind, pos physics.Vec, phase float64, cfg config.Game) *Enemy {
	score, color := cfg.ScoreSwarm, cfg.Colors.Swarm
	switch kind {
	case KindElite:
		score, color = cfg.ScoreElite, cfg.Colors.Elite
	case KindBoss:
		score, color = cfg.ScoreBoss, cfg.Colors.Boss
	}

	return &Enemy{
		Entity: Entity{
			ID:    id,
			Pos:   pos,
			Size:  physics.Vec{X: cfg.EnemyWidth, Y: cfg.EnemyHeight},
			Vel:   physics.Vec{X: cfg.EnemySpeed},
			Color: color,
		},
		Kind:        kind,
		ScoreValue:  score,
		PhaseOffset: phase,
	}
}

// March moves the enemy horizontally with the formation. Returns true if the enemy now touches or crosses either arena edge.
func (e *Enemy) March(direction, speed, dt, arenaWidth float64) bool {
	e.Vel.X = direction * speed
	e.Pos.X += e.Vel.X * dt
	return e.Pos.X <= 0 || e.Pos.X+e.Size.X >= arenaWidth
}

// SetWobble recomputes the cosmetic vertical offset for the given match time.
func (e *Enemy) SetWobble(elapsed, amplitude, frequency float64) {
	e.Wobble = amplitude * math.Sin(elapsed*frequency+e.PhaseOffset)
}

// Drop moves the enemy down one formation row step.
func (e *Enemy) Drop(distance float64) {
	e.Pos.Y += distance
}

// DisplayRect is the rectangle presentation code should draw: the collision
// rectangle shifted by the wobble.
func (e *Enemy) DisplayRect() physics.Rect {
	r := e.Rect()
	r.Y += e.Wobble
	return r
}
