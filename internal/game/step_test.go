package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/object"
	"github.com/tomz197/beedefense/internal/physics"
)

// constRand returns the same value forever.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

// quietConfig is the default tuning with enemy fire disabled.
func quietConfig() config.Game {
	cfg := config.DefaultGame()
	cfg.EnemyFireChance = 0
	return cfg
}

func newQuietMatch(t *testing.T) *State {
	t.Helper()
	return StartMatch(quietConfig(), constRand(0.5))
}

// soloEnemy replaces the wave with a single enemy at pos.
func soloEnemy(s *State, id uint64, kind object.Kind, pos physics.Vec) *object.Enemy {
	e := object.NewEnemy(id, kind, pos, 0, s.cfg)
	s.Enemies = []*object.Enemy{e}
	return e
}

func assertNoDeleted(t *testing.T, s *State) {
	t.Helper()
	for _, b := range s.Bullets {
		if b.IsDestroyed() {
			t.Fatalf("bullet %d still present while marked deleted", b.ID)
		}
	}
	for _, e := range s.Enemies {
		if e.IsDestroyed() {
			t.Fatalf("enemy %d still present while marked deleted", e.ID)
		}
	}
	for _, p := range s.Particles {
		if p.IsDestroyed() {
			t.Fatalf("particle %d still present while marked deleted", p.ID)
		}
	}
}

func TestStepInvalidDtChangesNothing(t *testing.T) {
	for _, dt := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
		s := newQuietMatch(t)
		before := s.Snapshot()
		cooldown := s.Player.Cooldown

		res := Step(s, dt, Input{Left: true, Fire: true})

		if res.ScoreChanged || res.GameOver != nil {
			t.Fatalf("dt=%v: result %+v, want empty", dt, res)
		}
		if s.Player.Pos != (physics.Vec{X: before.Player.Rect.X, Y: before.Player.Rect.Y}) {
			t.Fatalf("dt=%v: player moved to %+v", dt, s.Player.Pos)
		}
		if s.Score != before.Score || s.Elapsed != 0 || s.Player.Cooldown != cooldown {
			t.Fatalf("dt=%v: score %d elapsed %v cooldown %v changed", dt, s.Score, s.Elapsed, s.Player.Cooldown)
		}
		if len(s.Bullets) != 0 || len(s.Enemies) != len(before.Enemies) || len(s.Particles) != 0 {
			t.Fatalf("dt=%v: counts bullets=%d enemies=%d particles=%d changed",
				dt, len(s.Bullets), len(s.Enemies), len(s.Particles))
		}
	}
}

func TestFireOnFirstStep(t *testing.T) {
	s := newQuietMatch(t)
	p := s.Player

	Step(s, 0.016, Input{Fire: true})

	if len(s.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(s.Bullets))
	}
	b := s.Bullets[0]
	if b.Owner != object.OwnerPlayer {
		t.Fatalf("owner = %v, want player", b.Owner)
	}
	wantX := p.Pos.X + p.Size.X/2 - s.cfg.BulletWidth/2
	if b.Pos.X != wantX || b.Pos.Y != p.Pos.Y {
		t.Fatalf("bullet at %+v, want {%v %v}", b.Pos, wantX, p.Pos.Y)
	}
	if b.Vel.Y != -500 {
		t.Fatalf("bullet vel.y = %v, want -500", b.Vel.Y)
	}
	if p.Cooldown != s.cfg.Reload {
		t.Fatalf("cooldown = %v, want %v", p.Cooldown, s.cfg.Reload)
	}
}

func TestHeldFireIsRateLimited(t *testing.T) {
	s := newQuietMatch(t)
	seen := make(map[uint64]bool)

	for i := 0; i < 60; i++ {
		before := len(seen)
		Step(s, 1.0/60, Input{Fire: true})
		for _, b := range s.Bullets {
			if b.Owner == object.OwnerPlayer {
				seen[b.ID] = true
			}
		}
		if len(seen)-before > 1 {
			t.Fatalf("step %d spawned %d bullets, want at most 1", i, len(seen)-before)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("shots in one second = %d, want 4 with 0.25s reload", len(seen))
	}
}

func TestPlayerStaysInArena(t *testing.T) {
	s := StartMatch(config.DefaultGame(), rand.New(rand.NewSource(7)))
	maxX := s.cfg.ArenaWidth - s.Player.Size.X

	for i := 0; i < 400; i++ {
		in := Input{Left: i%40 < 25, Right: i%40 >= 25, Fire: true}
		Step(s, 0.1, in)
		if x := s.Player.Pos.X; x < 0 || x > maxX {
			t.Fatalf("step %d: player x = %v, want within [0, %v]", i, x, maxX)
		}
	}
}

func TestBulletKillsEnemy(t *testing.T) {
	s := newQuietMatch(t)
	e := soloEnemy(s, 999, object.KindSwarm, physics.Vec{X: 200, Y: 200})
	b := object.NewPlayerBullet(0, e.Rect(), s.cfg)
	b.Pos = e.Pos
	s.AddBullet(b)
	startScore := s.Score

	res := Step(s, 0.016, Input{})

	if s.Score != startScore+100 {
		t.Fatalf("score = %d, want %d", s.Score, startScore+100)
	}
	if !res.ScoreChanged {
		t.Fatal("ScoreChanged = false, want true")
	}
	for _, other := range s.Enemies {
		if other.ID == 999 {
			t.Fatal("killed enemy still present")
		}
	}
	if len(s.Bullets) != 0 {
		t.Fatalf("bullets = %d, want 0", len(s.Bullets))
	}
	if len(s.Particles) != 8 {
		t.Fatalf("particles = %d, want 8", len(s.Particles))
	}
	for i, p := range s.Particles {
		if p.Life != 1.0 || p.Color != s.cfg.Colors.Swarm {
			t.Fatalf("particle %d life %v color %s, want 1.0 %s", i, p.Life, p.Color, s.cfg.Colors.Swarm)
		}
	}
	assertNoDeleted(t, s)
}

func TestEmptiedWaveIsReplacedInSameStep(t *testing.T) {
	s := newQuietMatch(t)
	e := soloEnemy(s, 999, object.KindBoss, physics.Vec{X: 200, Y: 200})
	b := object.NewPlayerBullet(0, e.Rect(), s.cfg)
	b.Pos = e.Pos
	s.AddBullet(b)

	res := Step(s, 0.016, Input{})

	want := s.cfg.Grid.Rows * s.cfg.Grid.Cols
	if len(s.Enemies) != want {
		t.Fatalf("enemies after clearing wave = %d, want %d", len(s.Enemies), want)
	}
	if s.Terminal || res.GameOver != nil {
		t.Fatal("clearing a wave ended the match")
	}
	if s.Score != 300 {
		t.Fatalf("score = %d, want 300", s.Score)
	}
}

func TestEmptyCollectionRespawnsBeforeCollisions(t *testing.T) {
	s := newQuietMatch(t)
	s.Enemies = nil

	res := Step(s, 0.016, Input{})

	if len(s.Enemies) != s.cfg.Grid.Rows*s.cfg.Grid.Cols {
		t.Fatalf("enemies = %d, want full wave", len(s.Enemies))
	}
	if s.Terminal || res.GameOver != nil {
		t.Fatal("empty enemy collection ended the match")
	}
}

func TestCollisionBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		bulletY float64 // before the step; the bullet moves up 62.5 units
		hit     bool
	}{
		{"touching edge", 250.5, false},
		{"just apart", 250.4, false},
		{"just overlapping", 250.6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.EnemySpeed = 0
			s := StartMatch(cfg, constRand(0.5))
			soloEnemy(s, 999, object.KindSwarm, physics.Vec{X: 200, Y: 200})
			s.AddBullet(object.NewPlayerBullet(0, physics.Rect{X: 200, Y: tt.bulletY, W: 4, H: 0}, cfg))

			Step(s, 0.125, Input{})

			if tt.hit {
				if s.Score != 100 {
					t.Fatalf("score = %d, want 100", s.Score)
				}
				return
			}
			if s.Score != 0 || len(s.Bullets) != 1 || len(s.Enemies) != 1 {
				t.Fatalf("score=%d bullets=%d enemies=%d, want untouched pair", s.Score, len(s.Bullets), len(s.Enemies))
			}
		})
	}
}

func TestBulletKillsOnlyFirstOverlappingEnemy(t *testing.T) {
	s := newQuietMatch(t)
	pos := physics.Vec{X: 200, Y: 200}
	first := object.NewEnemy(1, object.KindBoss, pos, 0, s.cfg)
	second := object.NewEnemy(2, object.KindSwarm, pos, 0, s.cfg)
	s.Enemies = []*object.Enemy{first, second}
	b := object.NewPlayerBullet(0, first.Rect(), s.cfg)
	b.Pos = pos
	s.AddBullet(b)

	Step(s, 0.016, Input{})

	if s.Score != 300 {
		t.Fatalf("score = %d, want 300 from the first enemy only", s.Score)
	}
	if len(s.Enemies) != 1 || s.Enemies[0].ID != 2 {
		t.Fatalf("survivors = %v, want only enemy 2", enemyIDs(s))
	}
}

func enemyIDs(s *State) []uint64 {
	ids := make([]uint64, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestFrontLineEndsMatchWithoutScoring(t *testing.T) {
	s := newQuietMatch(t)
	s.Score = 500
	e := soloEnemy(s, 999, object.KindSwarm, physics.Vec{X: 200, Y: s.Player.Pos.Y - s.cfg.EnemyHeight})
	b := object.NewPlayerBullet(0, e.Rect(), s.cfg)
	b.Pos = e.Pos
	s.AddBullet(b)

	res := Step(s, 0.016, Input{})

	if !s.Terminal || res.GameOver == nil {
		t.Fatal("enemy at player row did not end the match")
	}
	if res.GameOver.Score != 500 || s.Score != 500 {
		t.Fatalf("final score = %d (state %d), want 500", res.GameOver.Score, s.Score)
	}
	if res.ScoreChanged {
		t.Fatal("ScoreChanged = true, want false")
	}
	if len(s.Enemies) != 1 || len(s.Particles) != 0 {
		t.Fatalf("enemies=%d particles=%d, want frozen pre-collision state", len(s.Enemies), len(s.Particles))
	}
}

func TestTerminalStateIsFrozen(t *testing.T) {
	s := newQuietMatch(t)
	soloEnemy(s, 999, object.KindSwarm, physics.Vec{X: 200, Y: s.Player.Pos.Y - s.cfg.EnemyHeight})
	Step(s, 0.016, Input{})
	if !s.Terminal {
		t.Fatal("match not over")
	}

	before := s.Snapshot()
	elapsed := s.Elapsed
	for i := 0; i < 10; i++ {
		res := Step(s, 0.016, Input{Left: true, Fire: true})
		if res.GameOver != nil || res.ScoreChanged {
			t.Fatalf("step after terminal reported %+v", res)
		}
	}
	after := s.Snapshot()
	if after.Player != before.Player || after.Score != before.Score || s.Elapsed != elapsed {
		t.Fatal("state mutated after terminal")
	}
	if after.Enemies[0].Rect != before.Enemies[0].Rect || len(after.Bullets) != len(before.Bullets) {
		t.Fatal("entities mutated after terminal")
	}
}

func TestEnemyBulletKillsPlayer(t *testing.T) {
	s := newQuietMatch(t)
	s.Score = 200
	s.AddBullet(&object.Bullet{
		Entity: object.Entity{
			Pos:  s.Player.Pos,
			Size: physics.Vec{X: 4, Y: 12},
		},
		Owner: object.OwnerEnemy,
	})

	res := Step(s, 0.016, Input{})

	if !s.Terminal || res.GameOver == nil || res.GameOver.Score != 200 {
		t.Fatalf("terminal=%v result=%+v, want game over with score 200", s.Terminal, res)
	}
	if len(s.Bullets) != 0 {
		t.Fatalf("bullets = %d, want hitting bullet removed", len(s.Bullets))
	}
	if len(s.Particles) != 8 {
		t.Fatalf("particles = %d, want 8", len(s.Particles))
	}
	center := s.Player.Center()
	for _, p := range s.Particles {
		if p.Color != s.cfg.Colors.Player || p.Pos != center {
			t.Fatalf("particle color %s at %+v, want %s at %+v", p.Color, p.Pos, s.cfg.Colors.Player, center)
		}
	}
}

func TestFormationDropsOncePerStep(t *testing.T) {
	s := newQuietMatch(t)
	a := object.NewEnemy(1, object.KindSwarm, physics.Vec{X: 768, Y: 100}, 0, s.cfg)
	b := object.NewEnemy(2, object.KindSwarm, physics.Vec{X: 769, Y: 150}, 0, s.cfg)
	s.Enemies = []*object.Enemy{a, b}

	Step(s, 0.125, Input{})

	if s.Direction != -1 {
		t.Fatalf("direction = %v, want -1", s.Direction)
	}
	if a.Pos.Y != 120 || b.Pos.Y != 170 {
		t.Fatalf("y = %v/%v, want 120/170 (one drop)", a.Pos.Y, b.Pos.Y)
	}

	Step(s, 0.125, Input{})
	if s.Direction != -1 || a.Pos.Y != 120 {
		t.Fatalf("direction=%v y=%v after moving away from edge, want -1 and 120", s.Direction, a.Pos.Y)
	}
}

func TestFormationMarchesWithDirection(t *testing.T) {
	s := newQuietMatch(t)
	e := soloEnemy(s, 1, object.KindSwarm, physics.Vec{X: 300, Y: 100})
	Step(s, 0.5, Input{})
	if e.Pos.X != 330 {
		t.Fatalf("x = %v, want 330", e.Pos.X)
	}
	s.Direction = -1
	Step(s, 0.5, Input{})
	if e.Pos.X != 300 {
		t.Fatalf("x = %v, want 300", e.Pos.X)
	}
}

func TestEnemiesFireWhenChanceHits(t *testing.T) {
	cfg := config.DefaultGame()
	cfg.EnemyFireChance = 0.5

	always := StartMatch(cfg, constRand(0))
	Step(always, 0.016, Input{})
	if got, want := len(always.Bullets), len(always.Enemies); got != want {
		t.Fatalf("enemy bullets = %d, want one per enemy (%d)", got, want)
	}
	for i, b := range always.Bullets {
		e := always.Enemies[i]
		if b.Owner != object.OwnerEnemy {
			t.Fatalf("bullet %d owner %v, want enemy", i, b.Owner)
		}
		if b.Pos.Y != e.Rect().Bottom() || b.Vel.Y != cfg.BulletSpeed*cfg.EnemyBulletSpeedFactor {
			t.Fatalf("bullet %d at y=%v vel=%v, want y=%v vel=%v", i, b.Pos.Y, b.Vel.Y, e.Rect().Bottom(), cfg.BulletSpeed*0.6)
		}
	}

	never := StartMatch(cfg, constRand(0.99))
	Step(never, 0.016, Input{})
	if len(never.Bullets) != 0 {
		t.Fatalf("enemy bullets = %d, want 0", len(never.Bullets))
	}
}

func TestEnemyFireChanceIsTimeNormalized(t *testing.T) {
	s := StartMatch(config.DefaultGame(), constRand(0.5))

	if got := s.enemyFireChance(1.0 / 60); math.Abs(got-0.0005) > 1e-12 {
		t.Fatalf("chance at 60Hz = %v, want 0.0005", got)
	}
	one := s.enemyFireChance(1.0 / 60)
	two := s.enemyFireChance(2.0 / 60)
	// Two 60Hz frames and one 30Hz frame give the same odds of not firing.
	if math.Abs((1-one)*(1-one)-(1-two)) > 1e-12 {
		t.Fatalf("chance not time-normalized: one=%v two=%v", one, two)
	}
}

func TestEnemyFireRateOverManySteps(t *testing.T) {
	cfg := config.DefaultGame()
	cfg.EnemyFireChance = 0.01
	cfg.EnemySpeed = 0
	s := StartMatch(cfg, rand.New(rand.NewSource(1)))
	s.Player.Pos.X = 0 // out of every column's line of fire

	const steps = 600
	shots := 0
	for i := 0; i < steps; i++ {
		before := make(map[uint64]bool, len(s.Bullets))
		for _, b := range s.Bullets {
			before[b.ID] = true
		}
		Step(s, 1.0/60, Input{})
		if s.Terminal {
			t.Fatalf("match ended at step %d", i)
		}
		for _, b := range s.Bullets {
			if !before[b.ID] {
				shots++
			}
		}
	}

	expected := cfg.EnemyFireChance * float64(len(s.Enemies)) * steps // 192
	if float64(shots) < expected*0.6 || float64(shots) > expected*1.4 {
		t.Fatalf("shots = %d, want about %v", shots, expected)
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := StartMatch(config.DefaultGame(), rng)
	input := rand.New(rand.NewSource(99))
	maxX := s.cfg.ArenaWidth - s.Player.Size.X
	lastScore := 0
	gameOvers := 0

	for i := 0; i < 5000; i++ {
		in := Input{
			Left:  input.Intn(3) == 0,
			Right: input.Intn(3) == 0,
			Fire:  input.Intn(2) == 0,
		}
		res := Step(s, 1.0/60, in)

		if s.Score < lastScore {
			t.Fatalf("step %d: score dropped from %d to %d", i, lastScore, s.Score)
		}
		if res.ScoreChanged != (s.Score != lastScore) {
			t.Fatalf("step %d: ScoreChanged=%v but score %d -> %d", i, res.ScoreChanged, lastScore, s.Score)
		}
		lastScore = s.Score
		if x := s.Player.Pos.X; x < 0 || x > maxX {
			t.Fatalf("step %d: player x = %v", i, x)
		}
		if res.GameOver != nil {
			gameOvers++
		}
		assertNoDeleted(t, s)
	}
	if gameOvers > 1 {
		t.Fatalf("game over reported %d times, want at most once", gameOvers)
	}
	if s.Terminal && gameOvers != 1 {
		t.Fatal("terminal match never reported game over")
	}
}
