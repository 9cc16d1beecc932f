package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/service/notification"
)

// StatusHandler exposes the operation-result history. Admin UI pages post
// their save/delete outcomes here so the header shows one shared history.
type StatusHandler struct {
	notifService notification.Service
}

func NewStatusHandler(notifService notification.Service) *StatusHandler {
	return &StatusHandler{notifService: notifService}
}

func (h *StatusHandler) List(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": h.notifService.StatusHistory(),
	})
}

func (h *StatusHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := validateInput(input); err != nil {
		return err
	}

	h.notifService.Status(input.Kind, input.Title, input.Message)
	return c.Status(fiber.StatusCreated).SendString("")
}

func (h *StatusHandler) Delete(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	h.notifService.RemoveStatus(notifID)
	return c.Status(fiber.StatusNoContent).SendString("")
}
