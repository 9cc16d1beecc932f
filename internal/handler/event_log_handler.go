package handler

import (
	"github.com/gofiber/fiber/v2"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/repository"
)

// EventLogHandler serves the journaled events backing the reports and
// error-log views.
type EventLogHandler struct {
	eventLogRepo repository.EventLogRepository
}

func NewEventLogHandler(eventLogRepo repository.EventLogRepository) *EventLogHandler {
	return &EventLogHandler{eventLogRepo: eventLogRepo}
}

func (h *EventLogHandler) List(c *fiber.Ctx) error {
	if h.eventLogRepo == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Event journal is not configured")
	}

	params := getPaginationParams(c)

	var (
		entries []domain.EventLog
		total   int64
		err     error
	)

	if raw := c.Query("tipo"); raw != "" {
		category := categoryFromParam(raw)
		if category == "" {
			return middleware.BadRequest("Invalid notification category")
		}
		entries, total, err = h.eventLogRepo.ListByCategory(c.Context(), category, params)
	} else {
		entries, total, err = h.eventLogRepo.List(c.Context(), params)
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(
		domain.NewPaginatedResponse(entries, params.Page, params.PageSize, total))
}
