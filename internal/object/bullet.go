package object

import (
	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/physics"
)

// Owner decides a bullet's direction and which collision rule applies to it.
type Owner int

const (
	OwnerPlayer Owner = iota // Travels up, hits enemies
	OwnerEnemy               // Travels down, hits the player
)

// String returns the owner name used in logs and snapshots.
func (o Owner) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// Bullet is a projectile fired by the player or an enemy.
type Bullet struct {
	Entity
	Owner Owner
}

// NewPlayerBullet spawns an upward bullet centered on the shooter's top edge.
func NewPlayerBullet(id uint64, shooter physics.Rect, cfg config.Game) *Bullet {
	return &Bullet{
		Entity: Entity{
			ID: id,
			Pos: physics.Vec{
				X: shooter.X + shooter.W/2 - cfg.BulletWidth/2,
				Y: shooter.Y,
			},
			Size:  physics.Vec{X: cfg.BulletWidth, Y: cfg.BulletHeight},
			Vel:   physics.Vec{Y: -cfg.BulletSpeed},
			Color: cfg.Colors.PlayerBullet,
		},
		Owner: OwnerPlayer,
	}
}

// NewEnemyBullet spawns a slower downward bullet centered on the shooter's bottom edge.
func NewEnemyBullet(id uint64, shooter physics.Rect, cfg config.Game) *Bullet {
	return &Bullet{
		Entity: Entity{
			ID: id,
			Pos: physics.Vec{
				X: shooter.X + shooter.W/2 - cfg.BulletWidth/2,
				Y: shooter.Bottom(),
			},
			Size:  physics.Vec{X: cfg.BulletWidth, Y: cfg.BulletHeight},
			Vel:   physics.Vec{Y: cfg.BulletSpeed * cfg.EnemyBulletSpeedFactor},
			Color: cfg.Colors.EnemyBullet,
		},
		Owner: OwnerEnemy,
	}
}

// Advance moves the bullet vertically and marks it for removal once it
// leaves [0, arenaHeight].
func (b *Bullet) Advance(dt, arenaHeight float64) {
	b.Pos.Y += b.Vel.Y * dt
	if b.Pos.Y < 0 || b.Pos.Y > arenaHeight {
		b.MarkDestroyed()
	}
}
