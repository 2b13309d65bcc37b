package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSConnection implements wsConnection for tests, grounded on the
// teacher's session.MockWSConnection: an inbound queue that tests may append
// to at any time plus a recorded outbound log, both guarded by one mutex.
type mockWSConnection struct {
	mu       sync.Mutex
	inbound  [][]byte
	readIdx  int
	outbound [][]byte
	closed   bool
	closeCh  chan struct{}
}

func newMockWSConnection() *mockWSConnection {
	return &mockWSConnection{closeCh: make(chan struct{})}
}

func (m *mockWSConnection) queue(frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = append(m.inbound, frame)
}

func (m *mockWSConnection) ReadMessage() (int, []byte, error) {
	for {
		m.mu.Lock()
		if m.readIdx < len(m.inbound) {
			msg := m.inbound[m.readIdx]
			m.readIdx++
			m.mu.Unlock()
			return websocket.TextMessage, msg, nil
		}
		m.mu.Unlock()

		select {
		case <-m.closeCh:
			return 0, nil, websocket.ErrCloseSent
		case <-time.After(time.Millisecond):
		}
	}
}

func (m *mockWSConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if messageType != websocket.TextMessage {
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.outbound = append(m.outbound, cp)
	return nil
}

func (m *mockWSConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.closeCh)
	}
	return nil
}

func (m *mockWSConnection) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockWSConnection) sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.outbound))
	copy(out, m.outbound)
	return out
}

// triggerClose makes ReadMessage return an error once the frames already
// queued have been read, simulating a client disconnect.
func (m *mockWSConnection) triggerClose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.closeCh)
	}
}
