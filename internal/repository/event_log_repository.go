package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"restaurante-admin/internal/domain"
)

// EventLogRepository journals every normalized server event for the
// reports and error-log views. It is an append-only operational log, never
// a recovery source for the in-memory notification lists.
type EventLogRepository interface {
	Create(ctx context.Context, entry *domain.EventLog) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.EventLog, int64, error)
	ListByCategory(ctx context.Context, category domain.ServerCategory, params domain.PaginationParams) ([]domain.EventLog, int64, error)
}

type eventLogRepository struct {
	db *sqlx.DB
}

func NewEventLogRepository(db *sqlx.DB) EventLogRepository {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) Create(ctx context.Context, entry *domain.EventLog) error {
	query := `
		INSERT INTO event_log (event, tipo, titulo, mensaje, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		entry.Event, entry.Category, entry.Title, entry.Message, entry.Payload,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *eventLogRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.EventLog, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM event_log`); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM event_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var entries []domain.EventLog
	err := r.db.SelectContext(ctx, &entries, query, params.PageSize, params.Offset())
	return entries, total, err
}

func (r *eventLogRepository) ListByCategory(ctx context.Context, category domain.ServerCategory, params domain.PaginationParams) ([]domain.EventLog, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM event_log WHERE tipo = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, category); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM event_log
		WHERE tipo = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var entries []domain.EventLog
	err := r.db.SelectContext(ctx, &entries, query, category, params.PageSize, params.Offset())
	return entries, total, err
}
