package socket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
	"restaurante-admin/internal/service/session"
)

type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// Handler receives the raw payload of one inbound event.
type Handler func(data json.RawMessage)

// StatusNotifier surfaces connection failures to the operator. Satisfied
// by the notification service.
type StatusNotifier interface {
	Error(title, message string)
}

// Service owns the single websocket connection to the events gateway.
// Only this service opens, closes or writes on the connection.
type Service interface {
	// Connect opens the connection in the background. No-op while a
	// connection is live or being established.
	Connect()

	// Disconnect closes the connection and stops reconnecting. It returns
	// once the background pump has exited. Idempotent.
	Disconnect()

	// Emit sends an outbound frame when connected, and silently drops it
	// otherwise. Outbound frames are fire-and-forget telemetry.
	Emit(event domain.EventName, payload any)

	On(event domain.EventName, h Handler)
	Off(event domain.EventName)

	Status() Status
	IsConnected() bool
	WatchStatus(sub watch.Subscriber[Status]) (cancel func())
}

type service struct {
	cfg      *config.Config
	sessions session.Service
	notifier StatusNotifier

	mu       sync.Mutex
	conn     *websocket.Conn
	cancel   context.CancelFunc
	done     chan struct{}
	active   bool
	handlers map[domain.EventName]Handler

	writeMu sync.Mutex

	status *watch.Source[Status]
}

// NewService builds the connection manager. It follows the session: a
// fresh login connects, a logout disconnects. The initial auto-connect is
// triggered by the service wiring once every handler is bound.
func NewService(cfg *config.Config, sessions session.Service, notifier StatusNotifier) Service {
	s := &service{
		cfg:      cfg,
		sessions: sessions,
		notifier: notifier,
		handlers: make(map[domain.EventName]Handler),
		status:   watch.New(StatusDisconnected),
	}

	sessions.Watch(func(token string) {
		if token == "" {
			s.Disconnect()
			return
		}
		// A rotated credential must reach the gateway, so a live
		// connection is cycled rather than kept.
		s.Disconnect()
		s.Connect()
	})

	return s
}

func (s *service) Connect() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		log.Println("socket: already connected")
		return
	}
	if s.sessions.Token() == "" {
		s.mu.Unlock()
		return
	}
	s.active = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	s.status.Set(StatusConnecting)
	go s.run(ctx, done)
}

// run dials the gateway and keeps reading until told to stop. A dropped
// connection is retried with a doubling delay, bounded in both delay and
// attempt count the way the socket.io defaults behave.
func (s *service) run(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		close(done)
	}()

	delay := s.cfg.ReconnectDelay
	attempts := 0
	first := true

	for {
		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("socket: connect error: %v", err)
			s.status.Set(StatusError)
			s.notifier.Error("Error de conexión", "No se pudo conectar con el servidor de eventos")

			attempts++
			if attempts >= s.cfg.ReconnectAttempts {
				log.Printf("socket: giving up after %d attempts", attempts)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > s.cfg.ReconnectDelayMax {
				delay = s.cfg.ReconnectDelayMax
			}
			continue
		}

		attempts = 0
		delay = s.cfg.ReconnectDelay

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.status.Set(StatusConnected)
		log.Println("socket: connected")

		if first || s.cfg.ReauthOnReconnect {
			s.authenticate()
		}
		first = false

		s.readLoop(ctx, conn)

		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		log.Println("socket: disconnected")
		s.status.Set(StatusDisconnected)
	}
}

func (s *service) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.ConnectTimeout,
	}

	header := http.Header{}
	if tok := s.sessions.Token(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}

	conn, resp, err := dialer.DialContext(ctx, s.cfg.SocketURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// authenticate tells the gateway who is listening so it can scope the
// events it pushes.
func (s *service) authenticate() {
	user := s.sessions.User()
	payload := domain.AuthenticatePayload{UserRole: string(domain.RoleAdmin)}
	if user != nil {
		payload.UserID = user.ID
		payload.UserName = user.Nombre
		if user.Role != "" {
			payload.UserRole = string(user.Role)
		}
	}
	s.Emit(domain.EventAuthenticate, payload)
}

func (s *service) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame domain.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			// Forward compatibility: garbage frames are not an error.
			continue
		}

		s.mu.Lock()
		h := s.handlers[frame.Event]
		s.mu.Unlock()

		if h == nil {
			continue
		}
		h(frame.Data)

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *service) Disconnect() {
	s.mu.Lock()
	cancel := s.cancel
	conn := s.conn
	done := s.done
	s.cancel = nil
	s.conn = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	// Wait for the run goroutine to exit so a Connect issued right after
	// (logout then login) does not hit the active guard and no-op.
	if done != nil {
		<-done
	}
	s.status.Set(StatusDisconnected)
}

func (s *service) Emit(event domain.EventName, payload any) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("socket: drop %s: %v", event, err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.WriteJSON(domain.Frame{Event: event, Data: data}); err != nil {
		log.Printf("socket: write %s: %v", event, err)
	}
}

func (s *service) On(event domain.EventName, h Handler) {
	s.mu.Lock()
	s.handlers[event] = h
	s.mu.Unlock()
}

func (s *service) Off(event domain.EventName) {
	s.mu.Lock()
	delete(s.handlers, event)
	s.mu.Unlock()
}

func (s *service) Status() Status {
	return s.status.Get()
}

func (s *service) IsConnected() bool {
	return s.status.Get() == StatusConnected
}

func (s *service) WatchStatus(sub watch.Subscriber[Status]) (cancel func()) {
	return s.status.Subscribe(sub)
}
