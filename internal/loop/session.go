// Package loop runs matches for a terminal: the frame driver that advances the
// simulation, and the per-connection session with its menu and game-over
// screens.
package loop

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/draw"
	"github.com/tomz197/beedefense/internal/game"
	"github.com/tomz197/beedefense/internal/input"
)

// Status is the screen a session is showing.
type Status int

const (
	StatusMenu     Status = iota // Title screen
	StatusPlaying                // Match in progress
	StatusGameOver               // Final score, waiting for restart
	StatusShutdown               // Server is going away
)

const (
	// restartDelay keeps a held fire key from skipping the game-over screen.
	restartDelay = 750 * time.Millisecond
	// shutdownNotice is how long the shutdown screen stays up.
	shutdownNotice = 5 * time.Second
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Game         config.Game
	Client       config.Client
	TermSizeFunc draw.TermSizeFunc // Defaults to the process terminal
	Logger       *zap.Logger
	Rand         game.Rand // Defaults to a time-seeded source
	Username     string
}

// Session is one player's terminal: it reads keys, drives matches and draws
// frames. Run blocks until the player quits, the input closes or the
// context is cancelled.
type Session struct {
	opts   SessionOptions
	log    *zap.Logger
	driver *Driver
	stream *input.Stream
	canvas *draw.Canvas
	cw     *draw.ChunkWriter
	w      io.Writer

	status       Status
	prevStatus   Status
	running      bool
	score        int // Latest OnScore value for the HUD
	finalScore   int
	gameOverAt   time.Time
	shutdownAt   time.Time
	lastInput    time.Time
	inactive     bool
	wasInactive  bool
	termSizeFunc draw.TermSizeFunc
}

// NewSession prepares a session reading keys from r and drawing to w.
func NewSession(r io.Reader, w io.Writer, opts SessionOptions) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("user", opts.Username))

	s := &Session{
		opts:         opts,
		log:          log,
		w:            w,
		stream:       input.StartStream(r, time.Duration(opts.Client.KeyHoldMS)*time.Millisecond),
		running:      true,
		status:       StatusMenu,
		prevStatus:   StatusMenu,
		lastInput:    time.Now(),
		termSizeFunc: opts.TermSizeFunc,
	}

	driverOpts := []DriverOption{
		WithLogger(log),
		WithHandlers(Handlers{OnScore: s.onScore, OnGameOver: s.onGameOver}),
	}
	if opts.Rand != nil {
		driverOpts = append(driverOpts, WithRand(opts.Rand))
	}
	s.driver = NewDriver(opts.Game, driverOpts...)

	termWidth, termHeight, _ := opts.TermSizeFunc()
	cols, rows, offsetCol, offsetRow := s.fit(termWidth, termHeight)
	s.canvas = draw.NewScaledCanvas(cols, rows, opts.Game.ArenaWidth, opts.Game.ArenaHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw = draw.NewChunkWriter(w, offsetCol, offsetRow)
	return s
}

// Run is the Input → Update → Draw loop, paced to the configured frame rate.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.w)
	defer draw.ShowCursor(s.w)
	draw.ClearScreen(s.w)

	frameTime := time.Second / time.Duration(max(s.opts.Client.TargetFPS, 1))
	s.log.Info("session started")

	for s.running {
		frameStart := time.Now()
		if ctx.Err() != nil && s.status != StatusShutdown {
			s.beginShutdown(frameStart)
		}

		s.update(s.stream.Read(), frameStart)
		s.updateScreen()
		if err := s.drawFrame(frameStart); err != nil {
			s.log.Debug("session write failed", zap.Error(err))
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(s.w)
	s.log.Info("session ended")
	return nil
}

// Status returns the screen currently shown.
func (s *Session) Status() Status {
	return s.status
}

// update applies one frame of input and advances whatever the current
// screen runs.
func (s *Session) update(in input.Input, now time.Time) {
	if in.Closed || in.Quit {
		s.running = false
		return
	}
	s.trackActivity(in, now)
	if !s.running {
		return
	}

	switch s.status {
	case StatusMenu:
		if in.Fire || in.Enter {
			s.startMatch(now)
		}
	case StatusPlaying:
		if in.Escape {
			s.log.Info("match abandoned", zap.String("match", s.driver.MatchID()))
			s.status = StatusMenu
			return
		}
		if res, _ := s.driver.Tick(now, IntentsFrom(in)); res.GameOver != nil {
			s.gameOverAt = now
		}
	case StatusGameOver:
		if (in.Fire || in.Enter) && now.Sub(s.gameOverAt) >= restartDelay {
			s.startMatch(now)
		}
	case StatusShutdown:
		if now.Sub(s.shutdownAt) >= shutdownNotice {
			s.running = false
		}
	}
}

// trackActivity warns, then disconnects, players who stop pressing keys.
func (s *Session) trackActivity(in input.Input, now time.Time) {
	if in.Left || in.Right || in.Fire || in.Enter || in.Escape {
		s.lastInput = now
		s.inactive = false
		return
	}
	idle := now.Sub(s.lastInput)
	c := s.opts.Client
	switch {
	case c.InactivityDisconnectSeconds > 0 && idle > time.Duration(c.InactivityDisconnectSeconds)*time.Second:
		s.log.Info("disconnecting idle session", zap.Duration("idle", idle))
		s.running = false
	case c.InactivityWarnSeconds > 0 && idle > time.Duration(c.InactivityWarnSeconds)*time.Second:
		s.inactive = true
	}
}

func (s *Session) startMatch(now time.Time) {
	s.stream.Reset()
	s.driver.StartMatch(now)
	s.score = 0
	s.status = StatusPlaying
}

func (s *Session) onScore(score int) {
	s.score = score
}

func (s *Session) onGameOver(score int) {
	s.finalScore = score
	s.status = StatusGameOver
}

func (s *Session) beginShutdown(now time.Time) {
	s.log.Info("notifying session of shutdown")
	s.status = StatusShutdown
	s.shutdownAt = now
}

// fit clamps the terminal to the configured render area, keeping the
// arena's aspect ratio.
func (s *Session) fit(termWidth, termHeight int) (cols, rows, offsetCol, offsetRow int) {
	return draw.FitArea(termWidth, termHeight,
		s.opts.Client.MaxCols, s.opts.Client.MaxRows,
		s.opts.Game.ArenaWidth, s.opts.Game.ArenaHeight)
}

// updateScreen follows terminal resizes. A real change clears the terminal
// so nothing is left outside the new render area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offsetCol, offsetRow := s.fit(termWidth, termHeight)
	if cols != s.canvas.TerminalWidth() || rows != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.cw)
	}
	s.canvas.Resize(cols, rows)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw.SetOffset(offsetCol, offsetRow)
}
