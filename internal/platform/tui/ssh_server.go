// Package tui provides the launcher screens built on Bubble Tea and the SSH
// server that runs game sessions for remote players via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	rm "github.com/charmbracelet/wish/recover"

	"github.com/vovakirdan/tui-invaders/internal/audio"
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/game"
	"github.com/vovakirdan/tui-invaders/internal/input"
	"github.com/vovakirdan/tui-invaders/internal/render"
	"github.com/vovakirdan/tui-invaders/internal/storage"
	"github.com/vovakirdan/tui-invaders/internal/terminal"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2323").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.invaders/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Keys, Render and Tick configure every game session.
	Keys   input.KeyMap
	Render render.Options
	Tick   time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2323",
		IdleTimeout: 10 * time.Minute,
		Keys:        input.DefaultKeyMap(),
		Render:      render.DefaultOptions(),
		Tick:        game.DefaultTick,
	}
}

// SSHServer wraps a Wish SSH server that runs one game per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// store may be nil, in which case sessions are not recorded.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := config.ExpandHome(cfg.HostKeyPath)
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".invaders", "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// The last middleware runs first: recover, log, require a PTY, play.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			rm.MiddlewareWithLogger(logger,
				srv.gameMiddleware,
				activeterm.Middleware(),
				logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// gameMiddleware runs a game session on the SSH channel.
func (s *SSHServer) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.play(sess)
		next(sess)
	}
}

func (s *SSHServer) play(sess ssh.Session) {
	logger := s.logger.With("user", sess.User())

	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "a terminal is required to play")
		return
	}
	if msg := sizeWarning(pty.Window.Width, pty.Window.Height); msg != "" {
		logger.Warn("small terminal", "width", pty.Window.Width, "height", pty.Window.Height)
		wish.Println(sess, msg)
	}

	rd, err := input.NewReader(sess, pty.Term)
	if err != nil {
		logger.Error("cannot read input", "error", err)
		wish.Fatalln(sess, err)
		return
	}
	defer rd.Close()

	// The client's PTY already delivers raw keystrokes and audio stays on
	// the server, so the session runs without raw mode or sound. Narrow
	// clients keep the player inside the visible columns.
	res, err := game.RunSession(sess.Context(), game.Options{
		Out:         sess,
		Mode:        terminal.NoRawMode(),
		Input:       rd,
		Keys:        s.config.Keys,
		Cues:        audio.Silent{},
		Render:      s.config.Render,
		Tick:        s.config.Tick,
		PlayerWidth: terminal.LaneWidth(pty.Window.Width),
		Logger:      logger,
	})
	s.record(res, "ssh:"+sess.User())

	logger.Info("game over",
		"reason", res.Reason,
		"frames", res.FramesRendered,
		"duration", res.Duration.Round(time.Millisecond),
	)
	if err != nil {
		logger.Error("session failed", "error", err)
		wish.Fatalln(sess, err)
	}
}

// record saves a session result. Failures are logged and ignored.
func (s *SSHServer) record(res game.Result, origin string) {
	if s.store == nil {
		return
	}
	_, err := s.store.SaveSession(storage.SessionRecord{
		Origin:         origin,
		Reason:         res.Reason,
		FramesSent:     res.FramesSent,
		FramesRendered: res.FramesRendered,
		Duration:       res.Duration,
		StartedAt:      res.StartedAt,
	})
	if err != nil {
		s.logger.Warn("could not save session", "error", err)
	}
}

// sizeWarning returns a notice for terminals too small for the grid, or "".
func sizeWarning(width, height int) string {
	if terminal.Fits(width, height) {
		return ""
	}
	return fmt.Sprintf("warning: your terminal is %dx%d, the game needs at least %dx%d",
		width, height, core.NumCols, core.NumRows)
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled
// or the server fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server, giving running games up to ten
// seconds to finish.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
