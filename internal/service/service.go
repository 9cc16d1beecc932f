package service

import (
	"github.com/redis/go-redis/v9"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/repository"
	"restaurante-admin/internal/service/events"
	"restaurante-admin/internal/service/notification"
	"restaurante-admin/internal/service/presence"
	"restaurante-admin/internal/service/session"
	"restaurante-admin/internal/service/socket"
	"restaurante-admin/internal/service/toast"
)

type Services struct {
	Session      session.Service
	Toast        toast.Service
	Notification notification.Service
	Presence     presence.Service
	Socket       socket.Service
	Events       events.Service
}

// NewServices wires the realtime core in dependency order. Constructing
// the socket service last means it can auto-connect with every consumer
// already listening.
func NewServices(repos *repository.Repositories, redis *redis.Client, cfg *config.Config) *Services {
	sessionService := session.NewService(cfg, redis)
	toastService := toast.NewService(cfg.ToastDuration)
	notificationService := notification.NewService(toastService)
	presenceService := presence.NewService()

	socketService := socket.NewService(cfg, sessionService, notificationService)
	eventsService := events.NewService(socketService, notificationService, presenceService, repos.EventLog)
	eventsService.Bind()

	// Auto-connect policy: a credential stored across restarts means the
	// operator is still logged in.
	if sessionService.Token() != "" {
		socketService.Connect()
	}

	return &Services{
		Session:      sessionService,
		Toast:        toastService,
		Notification: notificationService,
		Presence:     presenceService,
		Socket:       socketService,
		Events:       eventsService,
	}
}

// Shutdown tears the realtime core down: the upstream connection closes,
// event handlers detach and pending toast timers are cancelled.
func (s *Services) Shutdown() {
	s.Events.Unbind()
	s.Socket.Disconnect()
	s.Toast.Shutdown()
}
