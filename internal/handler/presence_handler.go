package handler

import (
	"github.com/gofiber/fiber/v2"

	"restaurante-admin/internal/service/presence"
)

type PresenceHandler struct {
	presenceService presence.Service
}

func NewPresenceHandler(presenceService presence.Service) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

func (h *PresenceHandler) List(c *fiber.Ctx) error {
	clients := h.presenceService.Clients()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  clients,
		"total": len(clients),
	})
}
