// Package tcp serves the line-delimited JSON protocol. Each connection is a
// session; every received line is handed to the coordinator and every
// broadcast is written back as one line.
package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"dispatch/internal/core/application/coordinator"
)

// MaxLineSize bounds a single inbound message.
const MaxLineSize = 1 << 20

var ErrServerClosed = errors.New("tcp: server closed")

// Coordinator is the part of coordinator.Coordinator the server drives.
type Coordinator interface {
	Connect(s coordinator.Session)
	Disconnect(ctx context.Context, s coordinator.Session)
	HandleMessage(ctx context.Context, s coordinator.Session, line []byte)
}

type Config struct {
	Addr string
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
}

type Server struct {
	cfg    Config
	coord  Coordinator
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	sessions map[*session]struct{}
	closed   bool

	wg sync.WaitGroup
}

func NewServer(cfg Config, coord Coordinator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		coord:    coord,
		logger:   logger.With("component", "tcp"),
		sessions: make(map[*session]struct{}),
	}
}

// ListenAndServe listens on cfg.Addr and blocks until Shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until Shutdown is called. It always
// returns a non-nil error; after Shutdown that error is ErrServerClosed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.WarnContext(ctx, "accept", "error", err)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(ctx, conn)
		}()
	}
}

// ServeConn runs one session until the peer disconnects, the idle timeout
// fires or the server shuts down.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	sess := newSession(conn)
	if !s.track(sess) {
		_ = sess.Close()
		return
	}
	defer s.untrack(sess)

	log := s.logger.With("session", sess.ID().String(), "remote", sess.remoteAddr())
	s.coord.Connect(sess)
	defer func() {
		s.coord.Disconnect(context.WithoutCancel(ctx), sess)
		_ = sess.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				log.WarnContext(ctx, "set read deadline", "error", err)
				return
			}
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.coord.HandleMessage(ctx, sess, line)
	}

	if err := scanner.Err(); err != nil && !s.isClosed() {
		var ne net.Error
		switch {
		case errors.As(err, &ne) && ne.Timeout():
			log.InfoContext(ctx, "idle session closed")
		case errors.Is(err, bufio.ErrTooLong):
			log.WarnContext(ctx, "line too long", "limit", MaxLineSize)
		case errors.Is(err, net.ErrClosed):
		default:
			log.WarnContext(ctx, "read", "error", err)
		}
	}
}

// Shutdown stops accepting, closes every open session and waits for their
// handlers to return or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for sess := range s.sessions {
		_ = sess.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) track(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
