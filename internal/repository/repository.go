package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	EventLog EventLogRepository
}

// NewRepositories wires every repository. db may be nil when the service
// runs without a journal database; callers must treat EventLog as
// optional in that case.
func NewRepositories(db *sqlx.DB) *Repositories {
	if db == nil {
		return &Repositories{}
	}
	return &Repositories{
		EventLog: NewEventLogRepository(db),
	}
}
