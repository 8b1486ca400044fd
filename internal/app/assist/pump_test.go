package assist

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSocket drives HandleConn without a network. Frames pushed into in are
// returned by ReadMessage; text frames written by the relay are collected.
type fakeSocket struct {
	in chan []byte

	mu     sync.Mutex
	writes [][]byte

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		in:     make(chan []byte, 8),
		closed: make(chan struct{}),
	}
}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	select {
	case data := <-s.in:
		return websocket.TextMessage, data, nil
	case <-s.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	select {
	case <-s.closed:
		return errors.New("use of closed connection")
	default:
	}

	if messageType == websocket.TextMessage {
		s.mu.Lock()
		s.writes = append(s.writes, data)
		s.mu.Unlock()
	}
	return nil
}

func (s *fakeSocket) SetReadLimit(int64) {}

func (s *fakeSocket) SetReadDeadline(time.Time) error { return nil }

func (s *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (s *fakeSocket) SetPongHandler(func(string) error) {}

func (s *fakeSocket) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSocket) frames() []receivedFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]receivedFrame, 0, len(s.writes))
	for _, data := range s.writes {
		var f receivedFrame
		if json.Unmarshal(data, &f) == nil {
			out = append(out, f)
		}
	}
	return out
}

func hasFrameOfType(s *fakeSocket, t MessageType) bool {
	for _, f := range s.frames() {
		if f.Type == t {
			return true
		}
	}
	return false
}

func TestRelayEndToEndOverPumps(t *testing.T) {
	r := newTestRelay(t)
	go r.Run()
	defer r.Shutdown()

	adminSock := newFakeSocket()
	visitorSock := newFakeSocket()

	go r.HandleConn(adminSock)
	go r.HandleConn(visitorSock)

	adminSock.in <- []byte(`{"type":"JOIN_AS_ADMIN","payload":{"adminId":7,"adminName":"Op"}}`)

	require.Eventually(t, func() bool {
		return hasFrameOfType(adminSock, TypeAdminJoined)
	}, time.Second, 5*time.Millisecond, "admin never received its session snapshot")

	visitorSock.in <- []byte(`{"type":"JOIN_AS_USER","payload":{"sessionId":"s1","userName":"Alice"}}`)

	require.Eventually(t, func() bool {
		return hasFrameOfType(adminSock, TypeUserJoined)
	}, time.Second, 5*time.Millisecond, "admin never saw the visitor join")

	visitorSock.in <- []byte(`{"type":"CHAT_MESSAGE","payload":{"message":"hi","isFromAdmin":false}}`)

	require.Eventually(t, func() bool {
		return hasFrameOfType(adminSock, TypeChatMessage)
	}, time.Second, 5*time.Millisecond, "admin never received the chat message")

	// Visitor hangs up: admins are told, and the session registry drains.
	visitorSock.Close()

	require.Eventually(t, func() bool {
		return hasFrameOfType(adminSock, TypeUserLeft)
	}, time.Second, 5*time.Millisecond, "admin never saw the visitor leave")

	// The visitor side never received anything it should not have.
	for _, f := range visitorSock.frames() {
		assert.NotEqual(t, TypeAdminJoined, f.Type)
		assert.NotEqual(t, TypeUserJoined, f.Type)
	}
}
