package object

import (
	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/physics"
)

// Player is the ship at the bottom of the arena. Exactly one exists per match.
type Player struct {
	Entity
	Cooldown float64 // Seconds until the next shot is allowed
}

// NewPlayer places the ship horizontally centered near the arena bottom.
func NewPlayer(cfg config.Game) *Player {
	return &Player{
		Entity: Entity{
			ID: 1,
			Pos: physics.Vec{
				X: cfg.ArenaWidth/2 - cfg.PlayerWidth/2,
				Y: cfg.ArenaHeight - cfg.PlayerBottomOffset,
			},
			Size:  physics.Vec{X: cfg.PlayerWidth, Y: cfg.PlayerHeight},
			Color: cfg.Colors.Player,
		},
	}
}

// Move shifts the ship by dir*speed*dt and clamps it into [0, arenaWidth-width].
// dir is -1 (left), 0 or +1 (right).
func (p *Player) Move(dir, speed, dt, arenaWidth float64) {
	p.Vel.X = dir * speed
	p.Pos.X += p.Vel.X * dt
	p.Pos.X = physics.Clamp(p.Pos.X, 0, arenaWidth-p.Size.X)
}

// Fire ticks the cooldown and, if fire is held and the gun is ready, returns
// a new bullet leaving the nose of the ship. Returns nil otherwise.
func (p *Player) Fire(fire bool, dt float64, ids *IDSeq, cfg config.Game) *Bullet {
	if p.Cooldown > 0 {
		p.Cooldown -= dt
	}
	if !fire || p.Cooldown > 0 {
		return nil
	}
	p.Cooldown = cfg.Reload
	return NewPlayerBullet(ids.Next(), p.Rect(), cfg)
}
