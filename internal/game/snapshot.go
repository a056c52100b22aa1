package game

import (
	"github.com/tomz197/beedefense/internal/object"
	"github.com/tomz197/beedefense/internal/physics"
)

// PlayerView is the player as presentation code sees it.
type PlayerView struct {
	Rect  physics.Rect
	Color string
}

// EnemyView is one enemy, with its cosmetic wobble applied to Rect.
type EnemyView struct {
	ID    uint64
	Rect  physics.Rect
	Color string
	Kind  object.Kind
}

// BulletView is one bullet.
type BulletView struct {
	ID    uint64
	Rect  physics.Rect
	Color string
	Owner object.Owner
}

// ParticleView is one particle; Alpha is its life clamped to [0,1].
type ParticleView struct {
	Rect  physics.Rect
	Color string
	Alpha float64
}

// Snapshot is a copy of everything a renderer needs. It shares no memory
// with the State it came from.
type Snapshot struct {
	Arena     physics.Vec
	Player    PlayerView
	Enemies   []EnemyView
	Bullets   []BulletView
	Particles []ParticleView
	Score     int
	Terminal  bool
}

// Snapshot captures the current state for presentation.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Arena: physics.Vec{X: s.cfg.ArenaWidth, Y: s.cfg.ArenaHeight},
		Player: PlayerView{
			Rect:  s.Player.Rect(),
			Color: s.Player.Color,
		},
		Enemies:   make([]EnemyView, 0, len(s.Enemies)),
		Bullets:   make([]BulletView, 0, len(s.Bullets)),
		Particles: make([]ParticleView, 0, len(s.Particles)),
		Score:     s.Score,
		Terminal:  s.Terminal,
	}
	for _, e := range s.Enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:    e.ID,
			Rect:  e.DisplayRect(),
			Color: e.Color,
			Kind:  e.Kind,
		})
	}
	for _, b := range s.Bullets {
		snap.Bullets = append(snap.Bullets, BulletView{
			ID:    b.ID,
			Rect:  b.Rect(),
			Color: b.Color,
			Owner: b.Owner,
		})
	}
	for _, p := range s.Particles {
		snap.Particles = append(snap.Particles, ParticleView{
			Rect:  p.Rect(),
			Color: p.Color,
			Alpha: p.Alpha(),
		})
	}
	return snap
}
