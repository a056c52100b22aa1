// Package game is the authoritative simulation: match state, the per-frame
// step, collision and scoring rules, and wave spawning. It performs no I/O
// and never blocks.
package game

import (
	"math/rand"
	"time"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/object"
	"github.com/tomz197/beedefense/internal/physics"
)

// Rand is the random source for enemy fire, wobble phases and particle speeds.
type Rand = object.Rand

// Input is the intent gathered for one step.
type Input struct {
	Left  bool
	Right bool
	Fire  bool
}

// GameOverEvent carries the final score of a match.
type GameOverEvent struct {
	Score int
}

// StepResult reports what a step changed that the caller may need to surface.
type StepResult struct {
	ScoreChanged bool
	GameOver     *GameOverEvent // Non-nil only on the step that ended the match
}

// State is one match. It is owned by a single caller and mutated only by Step.
// A new match always gets a new State.
type State struct {
	Player    *object.Player
	Bullets   []*object.Bullet
	Enemies   []*object.Enemy
	Particles []*object.Particle
	Score     int
	Elapsed   float64 // Seconds of simulated time
	Direction float64 // Formation heading: +1 right, -1 left
	Terminal  bool

	cfg         config.Game
	rng         Rand
	spawner     *Spawner
	bulletIDs   object.IDSeq
	particleIDs object.IDSeq

	// Objects spawned during a step join their collection after that
	// collection's update phase, so they never move in the step that made them.
	toSpawnBullets   []*object.Bullet
	toSpawnParticles []*object.Particle
}

// NewRand returns a time-seeded source for live play.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// StartMatch builds a fresh match with one spawned wave and zero score.
// A nil rng gets a time-seeded source.
func StartMatch(cfg config.Game, rng Rand) *State {
	if rng == nil {
		rng = NewRand()
	}
	s := &State{
		Player:    object.NewPlayer(cfg),
		Direction: 1,
		cfg:       cfg,
		rng:       rng,
		spawner:   NewSpawner(cfg, rng),
	}
	s.Enemies = s.spawner.SpawnWave()
	return s
}

// Config returns the tuning the match was started with.
func (s *State) Config() config.Game {
	return s.cfg
}

// AddBullet inserts a bullet with a fresh ID. Intended for scripted setups.
func (s *State) AddBullet(b *object.Bullet) {
	b.ID = s.bulletIDs.Next()
	s.Bullets = append(s.Bullets, b)
}

// spawnBullet queues a bullet created during the current step.
func (s *State) spawnBullet(b *object.Bullet) {
	s.toSpawnBullets = append(s.toSpawnBullets, b)
}

// explode queues a particle burst created during the current step.
func (s *State) explode(center physics.Vec, color string) {
	burst := object.SpawnExplosion(center, color, s.cfg, s.rng, &s.particleIDs)
	s.toSpawnParticles = append(s.toSpawnParticles, burst...)
}

// flushBullets adds all queued bullets and clears the queue.
func (s *State) flushBullets() {
	s.Bullets = append(s.Bullets, s.toSpawnBullets...)
	clear(s.toSpawnBullets)
	s.toSpawnBullets = s.toSpawnBullets[:0]
}

// flushParticles adds all queued particles and clears the queue.
func (s *State) flushParticles() {
	s.Particles = append(s.Particles, s.toSpawnParticles...)
	clear(s.toSpawnParticles)
	s.toSpawnParticles = s.toSpawnParticles[:0]
}

// installWave replaces the (empty) enemy collection with a new wave.
func (s *State) installWave() {
	s.Enemies = append(s.Enemies[:0], s.spawner.SpawnWave()...)
}
