package presence

import (
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
)

// Service mirrors the peers the events gateway reports as connected. The
// gateway is trusted not to double-emit, the only key is the socket id.
type Service interface {
	// Replace installs the full list from a snapshot event, discarding
	// whatever was tracked before.
	Replace(clients []domain.ConnectedClient)
	Add(client domain.ConnectedClient)
	RemoveBySocketID(socketID string)

	Clients() []domain.ConnectedClient
	Total() int

	Watch(sub watch.Subscriber[[]domain.ConnectedClient]) (cancel func())
}

type service struct {
	clients *watch.Source[[]domain.ConnectedClient]
}

func NewService() Service {
	return &service{
		clients: watch.New([]domain.ConnectedClient{}),
	}
}

func (s *service) Replace(clients []domain.ConnectedClient) {
	if clients == nil {
		clients = []domain.ConnectedClient{}
	}
	s.clients.Set(clients)
}

func (s *service) Add(client domain.ConnectedClient) {
	s.clients.Update(func(list []domain.ConnectedClient) []domain.ConnectedClient {
		return append(list, client)
	})
}

func (s *service) RemoveBySocketID(socketID string) {
	s.clients.Update(func(list []domain.ConnectedClient) []domain.ConnectedClient {
		out := make([]domain.ConnectedClient, 0, len(list))
		for _, c := range list {
			if c.SocketID != socketID {
				out = append(out, c)
			}
		}
		return out
	})
}

func (s *service) Clients() []domain.ConnectedClient {
	return s.clients.Get()
}

func (s *service) Total() int {
	return len(s.clients.Get())
}

func (s *service) Watch(sub watch.Subscriber[[]domain.ConnectedClient]) (cancel func()) {
	return s.clients.Subscribe(sub)
}
