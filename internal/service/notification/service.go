package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
	"restaurante-admin/internal/service/toast"
)

// Service is the single source of truth for both notification lists and
// their derived unread counts. Entries are never mutated by consumers
// directly, only through these methods.
type Service interface {
	// AddServer stores a server-pushed notification (newest first, capped)
	// and shows a toast for immediate visibility.
	AddServer(category domain.ServerCategory, title, message, route string) domain.ServerNotification
	Server() []domain.ServerNotification
	MarkRead(id uuid.UUID)
	MarkAllRead()
	RemoveServer(id uuid.UUID)

	// Click marks the notification read and publishes its route on the
	// navigation stream. Reports false for an unknown id.
	Click(id uuid.UUID) (route string, ok bool)

	// Status records an operation result. Identical (kind, title, message)
	// entries are merged so only the newest occurrence remains; the toast
	// layer additionally suppresses repeats within the cooldown window.
	Status(kind domain.StatusKind, title, message string)
	Success(title, message string)
	Error(title, message string)
	Warning(title, message string)
	Info(title, message string)
	StatusHistory() []domain.StatusNotification
	RemoveStatus(id uuid.UUID)

	UnreadServer() int
	CategoryUnread() map[domain.ServerCategory]int
	IncrementCategory(category domain.ServerCategory)
	ResetCategory(category domain.ServerCategory)
	TotalUnread() int

	WatchServer(sub watch.Subscriber[[]domain.ServerNotification]) (cancel func())
	WatchStatus(sub watch.Subscriber[[]domain.StatusNotification]) (cancel func())
	WatchNavigation(sub watch.Subscriber[string]) (cancel func())
}

type service struct {
	toaster toast.Service

	server *watch.Source[[]domain.ServerNotification]
	status *watch.Source[[]domain.StatusNotification]
	nav    *watch.Source[string]

	mu       sync.Mutex
	counters map[domain.ServerCategory]int
}

func NewService(toaster toast.Service) Service {
	return &service{
		toaster:  toaster,
		server:   watch.New([]domain.ServerNotification{}),
		status:   watch.New([]domain.StatusNotification{}),
		nav:      watch.New(""),
		counters: make(map[domain.ServerCategory]int),
	}
}

func (s *service) AddServer(category domain.ServerCategory, title, message, route string) domain.ServerNotification {
	notif := domain.ServerNotification{
		ID:        uuid.New(),
		Category:  category,
		Title:     title,
		Message:   message,
		Route:     route,
		Read:      false,
		CreatedAt: time.Now(),
	}

	s.server.Update(func(list []domain.ServerNotification) []domain.ServerNotification {
		out := append([]domain.ServerNotification{notif}, list...)
		if len(out) > domain.MaxNotifications {
			out = out[:domain.MaxNotifications]
		}
		return out
	})

	// Server events carry a unique identity, they always toast.
	s.toaster.Push(domain.StatusInfo, title, message)

	return notif
}

func (s *service) Server() []domain.ServerNotification {
	return s.server.Get()
}

func (s *service) MarkRead(id uuid.UUID) {
	s.server.Update(func(list []domain.ServerNotification) []domain.ServerNotification {
		out := make([]domain.ServerNotification, len(list))
		for i, n := range list {
			if n.ID == id {
				n.Read = true
			}
			out[i] = n
		}
		return out
	})
}

func (s *service) MarkAllRead() {
	s.server.Update(func(list []domain.ServerNotification) []domain.ServerNotification {
		out := make([]domain.ServerNotification, len(list))
		for i, n := range list {
			n.Read = true
			out[i] = n
		}
		return out
	})
}

func (s *service) RemoveServer(id uuid.UUID) {
	s.server.Update(func(list []domain.ServerNotification) []domain.ServerNotification {
		out := make([]domain.ServerNotification, 0, len(list))
		for _, n := range list {
			if n.ID != id {
				out = append(out, n)
			}
		}
		return out
	})
}

func (s *service) Click(id uuid.UUID) (string, bool) {
	var route string
	found := false
	for _, n := range s.server.Get() {
		if n.ID == id {
			route = n.Route
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	s.MarkRead(id)
	s.nav.Set(route)
	return route, true
}

func (s *service) Status(kind domain.StatusKind, title, message string) {
	notif := domain.StatusNotification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	s.status.Update(func(list []domain.StatusNotification) []domain.StatusNotification {
		// Merge rule: an identical tuple is replaced by the newer entry.
		out := make([]domain.StatusNotification, 0, len(list)+1)
		out = append(out, notif)
		for _, n := range list {
			if n.Kind == kind && n.Title == title && n.Message == message {
				continue
			}
			out = append(out, n)
		}
		if len(out) > domain.MaxNotifications {
			out = out[:domain.MaxNotifications]
		}
		return out
	})

	s.toaster.Notify(kind, title, message)
}

func (s *service) Success(title, message string) { s.Status(domain.StatusSuccess, title, message) }
func (s *service) Error(title, message string)   { s.Status(domain.StatusError, title, message) }
func (s *service) Warning(title, message string) { s.Status(domain.StatusWarning, title, message) }
func (s *service) Info(title, message string)    { s.Status(domain.StatusInfo, title, message) }

func (s *service) StatusHistory() []domain.StatusNotification {
	return s.status.Get()
}

func (s *service) RemoveStatus(id uuid.UUID) {
	s.status.Update(func(list []domain.StatusNotification) []domain.StatusNotification {
		out := make([]domain.StatusNotification, 0, len(list))
		for _, n := range list {
			if n.ID != id {
				out = append(out, n)
			}
		}
		return out
	})
}

func (s *service) UnreadServer() int {
	count := 0
	for _, n := range s.server.Get() {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *service) CategoryUnread() map[domain.ServerCategory]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ServerCategory]int, len(s.counters))
	for cat, n := range s.counters {
		out[cat] = n
	}
	return out
}

func (s *service) IncrementCategory(category domain.ServerCategory) {
	if !category.IsValid() {
		return
	}
	s.mu.Lock()
	s.counters[category]++
	s.mu.Unlock()
}

// ResetCategory clears one badge counter, called when the admin opens the
// matching view.
func (s *service) ResetCategory(category domain.ServerCategory) {
	s.mu.Lock()
	delete(s.counters, category)
	s.mu.Unlock()
}

func (s *service) TotalUnread() int {
	total := s.UnreadServer()
	s.mu.Lock()
	for _, n := range s.counters {
		total += n
	}
	s.mu.Unlock()
	return total
}

func (s *service) WatchServer(sub watch.Subscriber[[]domain.ServerNotification]) (cancel func()) {
	return s.server.Subscribe(sub)
}

func (s *service) WatchStatus(sub watch.Subscriber[[]domain.StatusNotification]) (cancel func()) {
	return s.status.Subscribe(sub)
}

func (s *service) WatchNavigation(sub watch.Subscriber[string]) (cancel func()) {
	return s.nav.Subscribe(sub)
}
