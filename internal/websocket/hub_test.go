package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shiftboard/internal/infrastructure"
	"shiftboard/internal/shared/testutil"
	"shiftboard/pkg/contracts/events"
)

// mockConn blocks reads until closed and records writes
type mockConn struct {
	mu        sync.Mutex
	written   []mockMessage
	closed    chan struct{}
	closeOnce sync.Once
}

type mockMessage struct {
	Type int
	Data []byte
}

func newMockConn() *mockConn {
	return &mockConn{closed: make(chan struct{})}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.closed:
		return errors.New("connection closed")
	default:
	}
	m.written = append(m.written, mockMessage{Type: messageType, Data: data})
	return nil
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	<-m.closed
	return 0, nil, errors.New("connection closed")
}

func (m *mockConn) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockConn) SetReadDeadline(time.Time) error   { return nil }
func (m *mockConn) SetWriteDeadline(time.Time) error  { return nil }
func (m *mockConn) SetReadLimit(int64)                {}
func (m *mockConn) SetPongHandler(func(string) error) {}
func (m *mockConn) RemoteAddr() string                { return "127.0.0.1:50000" }

func (m *mockConn) textMessages() []events.WebSocketMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.WebSocketMessage
	for _, w := range m.written {
		if w.Type != websocket.TextMessage {
			continue
		}
		var msg events.WebSocketMessage
		if err := json.Unmarshal(w.Data, &msg); err == nil {
			out = append(out, msg)
		}
	}
	return out
}

func (m *mockConn) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, infrastructure.NoopMetrics())
	hub.Start()
	return hub
}

func connectMock(t *testing.T, hub *Hub) (*Client, *mockConn) {
	t.Helper()
	conn := newMockConn()
	client := NewClient(hub, conn, DefaultTiming(), "trace-1", nil)
	client.Serve()
	require.Eventually(t, func() bool { return len(conn.textMessages()) >= 1 },
		time.Second, 5*time.Millisecond, "connect message not delivered")
	return client, conn
}

func TestHub_RegisterSendsConnectMessage(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	client, conn := connectMock(t, hub)

	assert.Equal(t, 1, hub.ClientCount())
	msg := conn.textMessages()[0]
	assert.Equal(t, events.MessageTypeConnect, msg.Type)
	assert.Equal(t, "trace-1", msg.TraceID)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, client.ID(), data["client_id"])

	hub.Stop()
	assert.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_PublishReachesEveryClient(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	defer hub.Stop()

	_, first := connectMock(t, hub)
	_, second := connectMock(t, hub)
	require.Equal(t, 2, hub.ClientCount())

	ctx := infrastructure.WithTraceID(context.Background(), "reload-42")
	hub.Publish(ctx, events.MessageTypeScheduleReloaded, events.ScheduleReloaded{
		State:   "loaded",
		Records: 3,
		Dates:   []string{"2025-03-25", "2025-03-26"},
	})

	for _, conn := range []*mockConn{first, second} {
		require.Eventually(t, func() bool { return len(conn.textMessages()) == 2 },
			time.Second, 5*time.Millisecond)
		msg := conn.textMessages()[1]
		assert.Equal(t, events.MessageTypeScheduleReloaded, msg.Type)
		assert.Equal(t, "reload-42", msg.TraceID)
		assert.NotEmpty(t, msg.ID)
		data := msg.Data.(map[string]interface{})
		assert.Equal(t, float64(3), data["records"])
	}

	assert.Eventually(t, func() bool {
		return hub.Stats()["messages_sent"].(int64) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	defer hub.Stop()

	_, conn := connectMock(t, hub)
	require.Equal(t, 1, hub.ClientCount())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestHub_StopIsIdempotentAndPublishDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	hub.Stop()
	hub.Stop()
	hub.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), events.MessageTypeScheduleReloaded, nil)
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stopped hub")
	}
}

func TestHub_ServeAfterStopClosesClient(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	hub.Stop()

	conn := newMockConn()
	NewClient(hub, conn, DefaultTiming(), "", nil).Serve()
	assert.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_OverGorillaConnection(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := newTestHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, WrapConn(conn), DefaultTiming(), "", nil).Serve()
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	var connect events.WebSocketMessage
	require.NoError(t, ws.ReadJSON(&connect))
	assert.Equal(t, events.MessageTypeConnect, connect.Type)

	hub.Publish(context.Background(), events.MessageTypeScheduleFailed, events.ScheduleReloaded{
		State:          "structural_error",
		MissingColumns: []string{"Off"},
	})

	var failed events.WebSocketMessage
	require.NoError(t, ws.ReadJSON(&failed))
	assert.Equal(t, events.MessageTypeScheduleFailed, failed.Type)

	ws.Close()
	hub.Stop()
	srv.Close()
}
