package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/draw"
	internallog "github.com/tomz197/beedefense/internal/logging"
	"github.com/tomz197/beedefense/internal/loop"
)

// sessionDrainTimeout bounds how long shutdown waits for players to see the
// notice and disconnect.
const sessionDrainTimeout = 15 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log, err := internallog.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := serve(cfg, log); err != nil {
		log.Fatal("ssh server failed", zap.Error(err))
	}
}

func serve(cfg *config.Config, log *zap.Logger) error {
	workingDir, _ := os.Getwd()
	log.Info("ssh config",
		zap.String("host", cfg.SSH.Host),
		zap.String("port", cfg.SSH.Port),
		zap.String("host_key", cfg.SSH.HostKeyPath),
		zap.String("working_dir", workingDir),
	)

	// Cancelled on shutdown; every session shows a notice, then exits.
	gameCtx, cancelGames := context.WithCancel(context.Background())
	defer cancelGames()
	games := &gameHandler{ctx: gameCtx, cfg: cfg, log: log}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// TCP_NODELAY keeps input latency low.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Info("starting ssh server", zap.String("addr", s.Addr))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	}

	log.Info("shutting down, notifying players")
	cancelGames()
	games.wait(sessionDrainTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// gameHandler runs one independent session per SSH connection.
type gameHandler struct {
	ctx    context.Context
	cfg    *config.Config
	log    *zap.Logger
	active sync.WaitGroup
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.active.Add(1)
		defer g.active.Done()

		log := g.log.With(zap.String("remote", sess.RemoteAddr().String()))
		log.Info("new game session",
			zap.String("user", sess.User()),
			zap.String("term", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height),
		)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		session := loop.NewSession(sess, sess, loop.SessionOptions{
			Game:         g.cfg.Game,
			Client:       g.cfg.Client,
			TermSizeFunc: sizeTracker.getSize,
			Logger:       log,
			Username:     sess.User(),
		})
		if err := session.Run(g.ctx); err != nil {
			log.Warn("game error", zap.Error(err))
		}

		log.Info("session ended", zap.String("user", sess.User()))
		next(sess)
	}
}

// wait blocks until every session has ended or timeout passes.
func (g *gameHandler) wait(timeout time.Duration) {
	drained := make(chan struct{})
	go func() {
		g.active.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(timeout):
		g.log.Warn("sessions still open after drain timeout", zap.Duration("timeout", timeout))
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
