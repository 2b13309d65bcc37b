package hub

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/metrics"
)

// wsConnection is the transport surface a Session needs. Production sessions
// are backed by *websocket.Conn; tests substitute an in-memory fake.
type wsConnection interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
	SetWriteDeadline(t time.Time) error
}

// Session is one live connected client, independent of whether it has
// joined a room yet (§5 "Session" in the glossary). It owns its outbound
// write serialization: send is safe under concurrent callers because
// exactly one writePump goroutine drains it onto the wire.
type Session struct {
	conn wsConnection
	send chan []byte

	mu       sync.Mutex
	identity *User // set once, on a successful JOIN_ROOM
	closed   bool
}

// NewSession wraps a transport connection. The Session has no identity until
// dispatch binds one via bindIdentity on a successful JOIN_ROOM.
func NewSession(conn wsConnection) *Session {
	return &Session{
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// bindIdentity attaches the resolved User to this Session once it has
// joined a room. Per invariant 6, a Session owns at most one identity.
func (s *Session) bindIdentity(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = u
}

// Identity returns the bound User, or nil if the Session has not joined a
// room yet.
func (s *Session) Identity() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// enqueue queues an encoded envelope for delivery. A full buffer means this
// session is unusually slow; the frame is dropped rather than blocking the
// caller — §5 forbids holding the hub mutex while sending, and a blocking
// channel send here would reintroduce the same hazard at the session level.
// A frame for a Session that has already closed is dropped as well.
func (s *Session) enqueue(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- frame:
	default:
		var userID UserID
		if s.identity != nil {
			userID = s.identity.ID
		}
		slog.Warn("session send buffer full, dropping frame", "userId", userID)
	}
}

func (s *Session) identityID() UserID {
	if id := s.Identity(); id != nil {
		return id.ID
	}
	return ""
}

// Send encodes and queues one envelope of type t with the given payload.
func (s *Session) Send(t EnvelopeType, payload any) {
	frame, err := encode(t, payload)
	if err != nil {
		slog.Error("failed to encode outbound envelope", "type", t, "error", err)
		return
	}
	s.enqueue(frame)
}

// writePump drains the send channel onto the wire. Runs in its own
// goroutine for the Session's lifetime; exits when send is closed.
func (s *Session) writePump() {
	const writeWait = 10 * time.Second
	defer s.conn.Close()

	for frame := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			slog.Warn("session write failed, closing", "error", err)
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump reads frames until the transport closes, decoding each into an
// Envelope and handing it to onEnvelope. Malformed frames are logged and
// dropped (§7 kind 1); the session stays open. Runs until the remote half
// closes or a read error occurs, at which point onClose runs exactly once.
func (s *Session) readPump(onEnvelope func(Envelope), onClose func()) {
	defer func() {
		onClose()
		s.close()
		metrics.ActiveSessions.Dec()
	}()

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		env, err := decode(data)
		if err != nil {
			slog.Warn("dropping malformed envelope", "error", err)
			continue
		}
		onEnvelope(env)
	}
}

// close is idempotent: it stops the write goroutine exactly once, however
// many times close is invoked (re-entrant disconnects must be a no-op).
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}
