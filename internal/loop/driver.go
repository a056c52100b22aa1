package loop

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/game"
	"github.com/tomz197/beedefense/internal/input"
)

// Handlers are notified of match events from inside Tick.
type Handlers struct {
	OnScore    func(score int)
	OnGameOver func(score int)
}

// Driver owns one match at a time and advances it once per displayed frame.
// It is not safe for concurrent use; each session has its own.
type Driver struct {
	cfg      config.Game
	rng      game.Rand
	log      *zap.Logger
	handlers Handlers

	state   *game.State
	matchID string
	last    time.Time
	running bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithRand sets the random source handed to every match.
func WithRand(rng game.Rand) DriverOption {
	return func(d *Driver) { d.rng = rng }
}

// WithLogger sets the logger used for match lifecycle events.
func WithLogger(log *zap.Logger) DriverOption {
	return func(d *Driver) { d.log = log }
}

// WithHandlers sets the score and game-over callbacks.
func WithHandlers(h Handlers) DriverOption {
	return func(d *Driver) { d.handlers = h }
}

// NewDriver creates an idle driver. Call StartMatch before Tick.
func NewDriver(cfg config.Game, opts ...DriverOption) *Driver {
	d := &Driver{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = game.NewRand()
	}
	return d
}

// StartMatch discards any previous match and starts a fresh one whose clock
// begins at now.
func (d *Driver) StartMatch(now time.Time) *game.State {
	d.state = game.StartMatch(d.cfg, d.rng)
	d.matchID = uuid.NewString()
	d.last = now
	d.running = true
	d.log.Info("match started", zap.String("match", d.matchID))
	return d.state
}

// Tick advances the running match to now. It reports false, without
// stepping, when no match is running.
func (d *Driver) Tick(now time.Time, in game.Input) (game.StepResult, bool) {
	if !d.running {
		return game.StepResult{}, false
	}

	dt := d.frameDelta(now)
	d.last = now

	res := game.Step(d.state, dt, in)
	if res.ScoreChanged && d.handlers.OnScore != nil {
		d.handlers.OnScore(d.state.Score)
	}
	if res.GameOver != nil {
		d.running = false
		d.log.Info("match over",
			zap.String("match", d.matchID),
			zap.Int("score", res.GameOver.Score),
			zap.Float64("elapsed", d.state.Elapsed),
		)
		if d.handlers.OnGameOver != nil {
			d.handlers.OnGameOver(res.GameOver.Score)
		}
	}
	return res, true
}

// frameDelta is the seconds since the previous tick, clamped to
// [0, MaxFrameDelta]. A broken clock yields 0, which Step ignores.
func (d *Driver) frameDelta(now time.Time) float64 {
	dt := now.Sub(d.last).Seconds()
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		d.log.Debug("dropping frame with bad delta", zap.Float64("dt", dt))
		return 0
	}
	return math.Min(dt, d.cfg.MaxFrameDelta)
}

// Running reports whether a match is in progress.
func (d *Driver) Running() bool {
	return d.running
}

// State returns the current or most recent match, or nil before the first.
func (d *Driver) State() *game.State {
	return d.state
}

// MatchID returns the identifier logged with the current match.
func (d *Driver) MatchID() string {
	return d.matchID
}

// Snapshot captures the current or most recent match for rendering.
func (d *Driver) Snapshot() game.Snapshot {
	if d.state == nil {
		return game.Snapshot{}
	}
	return d.state.Snapshot()
}

// IntentsFrom maps terminal key state to simulation intents.
func IntentsFrom(in input.Input) game.Input {
	return game.Input{
		Left:  in.Left,
		Right: in.Right,
		Fire:  in.Fire,
	}
}
