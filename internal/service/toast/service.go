package toast

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/pkg/watch"
)

// keySep joins the dedupe key parts. Pipe does not occur in the fixed
// titles the normalizer produces.
const keySep = "|"

type Service interface {
	// Notify shows a toast unless an identical one fired within the
	// cooldown window. Reports whether the toast was actually shown.
	Notify(kind domain.StatusKind, title, message string) bool

	// Push shows a toast unconditionally. Used for server notifications,
	// which carry their own identity and are never deduplicated.
	Push(kind domain.StatusKind, title, message string)

	Active() []domain.Toast
	Dismiss(id uuid.UUID)

	// Watch subscribes to the active-toast list. The returned cancel
	// function must be called on consumer teardown.
	Watch(sub watch.Subscriber[[]domain.Toast]) (cancel func())

	// Shutdown cancels every pending timer. The service must not be used
	// afterwards.
	Shutdown()
}

type service struct {
	mu       sync.Mutex
	duration time.Duration
	cooldown map[string]struct{}
	timers   map[uuid.UUID]*time.Timer
	stopped  bool

	toasts *watch.Source[[]domain.Toast]
}

func NewService(duration time.Duration) Service {
	if duration <= 0 {
		duration = 4 * time.Second
	}
	return &service{
		duration: duration,
		cooldown: make(map[string]struct{}),
		timers:   make(map[uuid.UUID]*time.Timer),
		toasts:   watch.New([]domain.Toast{}),
	}
}

func dedupeKey(kind domain.StatusKind, title, message string) string {
	return strings.Join([]string{string(kind), title, message}, keySep)
}

func (s *service) Notify(kind domain.StatusKind, title, message string) bool {
	key := dedupeKey(kind, title, message)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	if _, active := s.cooldown[key]; active {
		s.mu.Unlock()
		return false
	}
	s.cooldown[key] = struct{}{}
	s.mu.Unlock()

	s.show(kind, title, message, key)
	return true
}

func (s *service) Push(kind domain.StatusKind, title, message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.show(kind, title, message, "")
}

func (s *service) show(kind domain.StatusKind, title, message, key string) {
	t := domain.Toast{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Duration:  s.duration.Milliseconds(),
		CreatedAt: time.Now(),
	}

	s.toasts.Update(func(list []domain.Toast) []domain.Toast {
		return append(list, t)
	})

	timer := time.AfterFunc(s.duration, func() {
		s.expire(t.ID, key)
	})

	s.mu.Lock()
	if s.stopped {
		timer.Stop()
		s.mu.Unlock()
		return
	}
	s.timers[t.ID] = timer
	s.mu.Unlock()
}

// expire runs when a toast's timer fires: the toast leaves the screen and
// its dedupe key, if any, becomes available again.
func (s *service) expire(id uuid.UUID, key string) {
	s.mu.Lock()
	delete(s.timers, id)
	if key != "" {
		delete(s.cooldown, key)
	}
	s.mu.Unlock()

	s.removeToast(id)
}

func (s *service) removeToast(id uuid.UUID) {
	s.toasts.Update(func(list []domain.Toast) []domain.Toast {
		out := make([]domain.Toast, 0, len(list))
		for _, t := range list {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
}

func (s *service) Active() []domain.Toast {
	return s.toasts.Get()
}

// Dismiss removes a toast from the screen early. The cooldown entry keeps
// running until its timer fires, so rapid repeats stay suppressed.
func (s *service) Dismiss(id uuid.UUID) {
	s.removeToast(id)
}

func (s *service) Watch(sub watch.Subscriber[[]domain.Toast]) (cancel func()) {
	return s.toasts.Subscribe(sub)
}

func (s *service) Shutdown() {
	s.mu.Lock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.cooldown = make(map[string]struct{})
	s.mu.Unlock()
}
