package tcp

import (
	"context"
	"net"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// session is one client connection. Writes are serialised so a broadcast
// and a get_status reply never interleave on the wire.
type session struct {
	id   kernel.UUID
	conn net.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newSession(conn net.Conn) *session {
	return &session{id: kernel.NewUUID(), conn: conn}
}

func (s *session) ID() kernel.UUID {
	return s.id
}

// Send writes payload followed by a newline. The context deadline, if any,
// becomes the write deadline.
func (s *session) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	line := make([]byte, 0, len(payload)+1)
	line = append(line, payload...)
	line = append(line, '\n')
	_, err := s.conn.Write(line)
	return err
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func (s *session) remoteAddr() string {
	if addr := s.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
