package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxNotifications caps both in-memory notification lists. Oldest entries
// are evicted once the cap is reached.
const MaxNotifications = 20

type ServerCategory string

const (
	CategoryPedido ServerCategory = "pedido"
	CategoryMesa   ServerCategory = "mesa"
	CategoryResena ServerCategory = "resena"
	CategoryPago   ServerCategory = "pago"
	CategoryMozo   ServerCategory = "mozo"
)

func (c ServerCategory) IsValid() bool {
	switch c {
	case CategoryPedido, CategoryMesa, CategoryResena, CategoryPago, CategoryMozo:
		return true
	}
	return false
}

// ServerNotification is one server-pushed event shown in the header panel.
// It lives only in memory and is gone after a restart.
type ServerNotification struct {
	ID        uuid.UUID      `json:"id"`
	Category  ServerCategory `json:"tipo"`
	Title     string         `json:"titulo"`
	Message   string         `json:"mensaje"`
	Route     string         `json:"url"`
	Read      bool           `json:"leida"`
	CreatedAt time.Time      `json:"created_at"`
}

type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
	StatusWarning StatusKind = "warning"
	StatusInfo    StatusKind = "info"
)

func (k StatusKind) IsValid() bool {
	switch k {
	case StatusSuccess, StatusError, StatusWarning, StatusInfo:
		return true
	}
	return false
}

// StatusNotification records the outcome of a local admin operation
// (save succeeded, request failed, ...). Kept as a capped history next to
// the server notifications.
type StatusNotification struct {
	ID        uuid.UUID  `json:"id"`
	Kind      StatusKind `json:"tipo"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensaje"`
	CreatedAt time.Time  `json:"created_at"`
}

// Toast is a transient on-screen alert. It disappears on its own after
// Duration; the notification lists keep the durable record.
type Toast struct {
	ID        uuid.UUID  `json:"id"`
	Kind      StatusKind `json:"tipo"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensaje"`
	Duration  int64      `json:"duration_ms"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreateStatusInput struct {
	Kind    StatusKind `json:"tipo" validate:"required,oneof=success error warning info"`
	Title   string     `json:"titulo" validate:"required,max=100"`
	Message string     `json:"mensaje" validate:"max=300"`
}
