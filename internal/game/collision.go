package game

import "github.com/tomz197/beedefense/internal/object"

// checkBulletEnemyCollisions handles player bullets hitting enemies.
// A bullet kills at most one enemy; ties go to the earliest enemy in the
// collection.
func (s *State) checkBulletEnemyCollisions() {
	for _, b := range s.Bullets {
		if b.IsDestroyed() || b.Owner != object.OwnerPlayer {
			continue
		}
		br := b.Rect()
		for _, e := range s.Enemies {
			if e.IsDestroyed() {
				continue
			}
			if br.Overlaps(e.Rect()) {
				b.MarkDestroyed()
				e.MarkDestroyed()
				s.Score += e.ScoreValue
				s.explode(e.Center(), e.Color)
				break
			}
		}
	}
}

// checkBulletPlayerCollisions handles enemy bullets hitting the player.
// The first hit ends the match; later bullets are left alone.
func (s *State) checkBulletPlayerCollisions() {
	pr := s.Player.Rect()
	for _, b := range s.Bullets {
		if b.IsDestroyed() || b.Owner != object.OwnerEnemy {
			continue
		}
		if b.Rect().Overlaps(pr) {
			b.MarkDestroyed()
			s.Terminal = true
			s.explode(s.Player.Center(), s.Player.Color)
			return
		}
	}
}
