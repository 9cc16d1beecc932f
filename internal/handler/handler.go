package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/repository"
	"restaurante-admin/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	Status       *StatusHandler
	Presence     *PresenceHandler
	Realtime     *RealtimeHandler
	EventLog     *EventLogHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Status:       NewStatusHandler(services.Notification),
		Presence:     NewPresenceHandler(services.Presence),
		Realtime:     NewRealtimeHandler(services.Socket, services.Session),
		EventLog:     NewEventLogHandler(repos.EventLog),
	}
}

var validate = validator.New()

// validateInput runs struct-tag validation and converts the first failure
// into a 422 the central error handler knows how to render.
func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return middleware.UnprocessableEntity(
				fmt.Sprintf("Field '%s' failed on '%s' validation", fe.Field(), fe.Tag()))
		}
		return middleware.UnprocessableEntity("Invalid request body")
	}
	return nil
}

func categoryFromParam(raw string) domain.ServerCategory {
	cat := domain.ServerCategory(raw)
	if !cat.IsValid() {
		return ""
	}
	return cat
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}
