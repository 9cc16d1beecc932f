package socket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
	"restaurante-admin/internal/service/session"
	"restaurante-admin/internal/service/socket"
)

type fakeSession struct {
	token *watch.Source[string]
	user  *domain.User
}

func newFakeSession(token string) *fakeSession {
	return &fakeSession{token: watch.New(token)}
}

func (f *fakeSession) Token() string { return f.token.Get() }

func (f *fakeSession) SetToken(_ context.Context, token string) error {
	f.token.Set(token)
	return nil
}

func (f *fakeSession) Clear(context.Context) { f.token.Set("") }

func (f *fakeSession) User() *domain.User { return f.user }

func (f *fakeSession) Validate(string) (*session.Claims, error) { return nil, nil }

func (f *fakeSession) Watch(sub watch.Subscriber[string]) (cancel func()) {
	return f.token.Subscribe(sub)
}

type fakeNotifier struct {
	errors atomic.Int32
}

func (f *fakeNotifier) Error(title, message string) { f.errors.Add(1) }

// gateway is an in-process stand-in for the events server. It accepts
// websocket upgrades and records every inbound frame.
type gateway struct {
	srv      *httptest.Server
	inbound  chan domain.Frame
	sessions chan *websocket.Conn
	bearers  chan string
	accepted atomic.Int32
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	g := &gateway{
		inbound:  make(chan domain.Frame, 16),
		sessions: make(chan *websocket.Conn, 4),
		bearers:  make(chan string, 4),
	}

	upgrader := websocket.Upgrader{}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		g.accepted.Add(1)
		g.bearers <- r.Header.Get("Authorization")
		g.sessions <- conn

		for {
			var frame domain.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			g.inbound <- frame
		}
	}))
	t.Cleanup(g.srv.Close)

	return g
}

func (g *gateway) url() string {
	return "ws" + strings.TrimPrefix(g.srv.URL, "http")
}

func (g *gateway) conn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-g.sessions:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("gateway: no connection arrived")
		return nil
	}
}

func (g *gateway) bearer(t *testing.T) string {
	t.Helper()
	select {
	case b := <-g.bearers:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("gateway: no handshake arrived")
		return ""
	}
}

func (g *gateway) frame(t *testing.T) domain.Frame {
	t.Helper()
	select {
	case f := <-g.inbound:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("gateway: no frame arrived")
		return domain.Frame{}
	}
}

func testConfig(url string) *config.Config {
	return &config.Config{
		SocketURL:         url,
		ReconnectDelay:    10 * time.Millisecond,
		ReconnectDelayMax: 40 * time.Millisecond,
		ReconnectAttempts: 2,
		ConnectTimeout:    time.Second,
		ReauthOnReconnect: true,
	}
}

func TestConnect_AuthenticatesAsOperator(t *testing.T) {
	g := newGateway(t)
	sess := newFakeSession("tok")
	sess.user = &domain.User{ID: "u1", Nombre: "Marta", Role: domain.RoleEncargado}

	svc := socket.NewService(testConfig(g.url()), sess, &fakeNotifier{})
	svc.Connect()
	defer svc.Disconnect()

	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	frame := g.frame(t)
	assert.Equal(t, domain.EventAuthenticate, frame.Event)

	var auth domain.AuthenticatePayload
	require.NoError(t, json.Unmarshal(frame.Data, &auth))
	assert.Equal(t, "u1", auth.UserID)
	assert.Equal(t, "Marta", auth.UserName)
	assert.Equal(t, "encargado", auth.UserRole)
}

func TestConnect_WhileActiveIsNoop(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	svc.Connect()
	defer svc.Disconnect()
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	svc.Connect()
	svc.Connect()

	// A second handshake would show up as another accepted upgrade.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), g.accepted.Load())
}

func TestConnect_WithoutTokenStaysDisconnected(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession(""), &fakeNotifier{})

	svc.Connect()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, socket.StatusDisconnected, svc.Status())
	assert.Zero(t, g.accepted.Load())
}

func TestEmit_DropsWhenDisconnected(t *testing.T) {
	svc := socket.NewService(testConfig("ws://127.0.0.1:1"), newFakeSession("tok"), &fakeNotifier{})

	assert.NotPanics(t, func() {
		svc.Emit(domain.EventAuthenticate, domain.AuthenticatePayload{UserID: "u1"})
	})
}

func TestEmit_WritesFrame(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	svc.Connect()
	defer svc.Disconnect()
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)
	g.frame(t) // authenticate

	svc.Emit(domain.EventName("ping"), map[string]int{"n": 1})

	frame := g.frame(t)
	assert.Equal(t, domain.EventName("ping"), frame.Event)
	assert.JSONEq(t, `{"n":1}`, string(frame.Data))
}

func TestInboundDispatch(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	var got atomic.Value
	svc.On(domain.EventMozoLlamada, func(data json.RawMessage) {
		got.Store(string(data))
	})

	svc.Connect()
	defer svc.Disconnect()
	conn := g.conn(t)

	payload, _ := json.Marshal(domain.MozoLlamadaPayload{MesaNumero: 3})
	require.NoError(t, conn.WriteJSON(domain.Frame{Event: domain.EventMozoLlamada, Data: payload}))

	assert.Eventually(t, func() bool {
		v, _ := got.Load().(string)
		return strings.Contains(v, `"mesa_numero":3`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInbound_UnknownAndGarbageIgnored(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	var calls atomic.Int32
	svc.On(domain.EventPedidoCreado, func(json.RawMessage) { calls.Add(1) })

	svc.Connect()
	defer svc.Disconnect()
	conn := g.conn(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(domain.Frame{Event: "quien:sabe"}))
	require.NoError(t, conn.WriteJSON(domain.Frame{Event: domain.EventPedidoCreado}))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, svc.IsConnected(), "bad frames must not kill the connection")
}

func TestOff_RemovesHandler(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	var calls atomic.Int32
	svc.On(domain.EventPagoCreado, func(json.RawMessage) { calls.Add(1) })
	svc.Off(domain.EventPagoCreado)

	svc.Connect()
	defer svc.Disconnect()
	conn := g.conn(t)

	require.NoError(t, conn.WriteJSON(domain.Frame{Event: domain.EventPagoCreado}))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDisconnect_IsIdempotent(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	svc.Connect()
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	svc.Disconnect()
	svc.Disconnect()

	assert.Equal(t, socket.StatusDisconnected, svc.Status())
	assert.False(t, svc.IsConnected())
}

func TestReconnect_ReauthenticatesByDefault(t *testing.T) {
	g := newGateway(t)
	sess := newFakeSession("tok")
	sess.user = &domain.User{ID: "u1", Nombre: "Marta", Role: domain.RoleAdmin}
	svc := socket.NewService(testConfig(g.url()), sess, &fakeNotifier{})

	svc.Connect()
	defer svc.Disconnect()

	conn := g.conn(t)
	first := g.frame(t)
	require.Equal(t, domain.EventAuthenticate, first.Event)

	// Gateway drops the session; the client must come back on its own.
	conn.Close()

	g.conn(t)
	second := g.frame(t)
	assert.Equal(t, domain.EventAuthenticate, second.Event)
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(2), g.accepted.Load())
}

func TestReconnect_SkipsAuthenticateWhenDisabled(t *testing.T) {
	g := newGateway(t)
	cfg := testConfig(g.url())
	cfg.ReauthOnReconnect = false
	svc := socket.NewService(cfg, newFakeSession("tok"), &fakeNotifier{})

	svc.Connect()
	defer svc.Disconnect()

	conn := g.conn(t)
	first := g.frame(t)
	require.Equal(t, domain.EventAuthenticate, first.Event, "first connect always authenticates")

	conn.Close()
	g.conn(t)
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	svc.Emit(domain.EventName("ping"), nil)

	frame := g.frame(t)
	assert.Equal(t, domain.EventName("ping"), frame.Event, "reconnect must not re-send authenticate")
}

func TestDisconnect_ThenImmediateConnect(t *testing.T) {
	g := newGateway(t)
	svc := socket.NewService(testConfig(g.url()), newFakeSession("tok"), &fakeNotifier{})

	svc.Connect()
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	// Logout then login in quick succession.
	svc.Disconnect()
	svc.Connect()
	defer svc.Disconnect()

	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return g.accepted.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionWatch_RotatedTokenCyclesConnection(t *testing.T) {
	g := newGateway(t)
	sess := newFakeSession("tok1")
	svc := socket.NewService(testConfig(g.url()), sess, &fakeNotifier{})

	svc.Connect()
	defer svc.Disconnect()
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Bearer tok1", g.bearer(t))

	require.NoError(t, sess.SetToken(context.Background(), "tok2"))

	assert.Equal(t, "Bearer tok2", g.bearer(t), "a rotated credential must reach the gateway")
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)
}

func TestDialFailure_NotifiesAndGivesUp(t *testing.T) {
	// Nothing listens on this port.
	notifier := &fakeNotifier{}
	svc := socket.NewService(testConfig("ws://127.0.0.1:1"), newFakeSession("tok"), notifier)

	svc.Connect()

	assert.Eventually(t, func() bool {
		return notifier.errors.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond, "each failed attempt must surface an error")
	assert.Equal(t, socket.StatusError, svc.Status())
}

func TestSessionWatch_DrivesConnection(t *testing.T) {
	g := newGateway(t)
	sess := newFakeSession("")
	svc := socket.NewService(testConfig(g.url()), sess, &fakeNotifier{})
	defer svc.Disconnect()

	require.NoError(t, sess.SetToken(context.Background(), "tok"))
	assert.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	sess.Clear(context.Background())
	assert.Eventually(t, func() bool {
		return svc.Status() == socket.StatusDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}
