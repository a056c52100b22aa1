package game

import (
	"math"

	"github.com/tomz197/beedefense/internal/object"
)

// Step advances the match by dt seconds.
//
// A step with a non-finite dt or dt <= 0, or on a match that has already
// ended, changes nothing. Callers are expected to clamp dt.
func Step(s *State, dt float64, in Input) StepResult {
	var res StepResult
	if s.Terminal || !(dt > 0) || math.IsInf(dt, 1) {
		return res
	}

	startScore := s.Score
	s.Elapsed += dt

	s.updatePlayer(dt, in)
	hitEdge, frontLine := s.updateFormation(dt)
	if hitEdge {
		s.dropFormation()
	}

	// Enemies reaching the player's row ends the match before anything else moves.
	if len(s.Enemies) > 0 && frontLine >= s.Player.Pos.Y {
		s.flushBullets()
		return s.endMatch(res, startScore)
	}

	if len(s.Enemies) == 0 {
		s.installWave()
	}

	s.updateBullets(dt)
	s.flushBullets()

	s.checkBulletEnemyCollisions()
	s.checkBulletPlayerCollisions()

	s.updateParticles(dt)
	s.flushParticles()

	s.compact()
	if len(s.Enemies) == 0 && !s.Terminal {
		s.installWave()
	}

	if s.Terminal {
		return s.endMatch(res, startScore)
	}
	res.ScoreChanged = s.Score != startScore
	return res
}

// endMatch freezes the state and fills in the game-over event.
func (s *State) endMatch(res StepResult, startScore int) StepResult {
	s.Terminal = true
	res.ScoreChanged = s.Score != startScore
	res.GameOver = &GameOverEvent{Score: s.Score}
	return res
}

// updatePlayer applies movement intent, then ticks the gun.
func (s *State) updatePlayer(dt float64, in Input) {
	var dir float64
	if in.Left {
		dir--
	}
	if in.Right {
		dir++
	}
	s.Player.Move(dir, s.cfg.PlayerSpeed, dt, s.cfg.ArenaWidth)

	if b := s.Player.Fire(in.Fire, dt, &s.bulletIDs, s.cfg); b != nil {
		s.spawnBullet(b)
	}
}

// updateFormation marches every enemy, refreshes its wobble and rolls its
// fire chance. Returns whether any enemy touched an arena edge and the lowest
// enemy bottom edge.
func (s *State) updateFormation(dt float64) (hitEdge bool, frontLine float64) {
	fireChance := s.enemyFireChance(dt)

	for _, e := range s.Enemies {
		if e.March(s.Direction, s.cfg.EnemySpeed, dt, s.cfg.ArenaWidth) {
			hitEdge = true
		}
		e.SetWobble(s.Elapsed, s.cfg.WobbleAmplitude, s.cfg.WobbleFrequency)
		frontLine = math.Max(frontLine, e.Rect().Bottom())

		if fireChance > 0 && s.rng.Float64() < fireChance {
			s.spawnBullet(object.NewEnemyBullet(s.bulletIDs.Next(), e.Rect(), s.cfg))
		}
	}
	return hitEdge, frontLine
}

// enemyFireChance converts the per-reference-frame fire chance into the
// probability that one enemy fires during a step of length dt. At the
// reference frame rate it is exactly the configured chance.
func (s *State) enemyFireChance(dt float64) float64 {
	c := s.cfg.EnemyFireChance
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 1
	}
	return 1 - math.Pow(1-c, dt*s.cfg.FireReferenceRate)
}

// dropFormation reverses the formation and moves it one row down.
func (s *State) dropFormation() {
	s.Direction = -s.Direction
	for _, e := range s.Enemies {
		e.Drop(s.cfg.DropDistance)
	}
}

// updateBullets moves bullets that existed at the start of the step.
func (s *State) updateBullets(dt float64) {
	for _, b := range s.Bullets {
		b.Advance(dt, s.cfg.ArenaHeight)
	}
}

// updateParticles ages particles that existed at the start of the step.
func (s *State) updateParticles(dt float64) {
	for _, p := range s.Particles {
		p.Age(dt, s.cfg.ParticleFadeRate)
	}
}

// compact drops everything marked for deletion this step.
func (s *State) compact() {
	s.Bullets = object.Compact(s.Bullets)
	s.Enemies = object.Compact(s.Enemies)
	s.Particles = object.Compact(s.Particles)
}
