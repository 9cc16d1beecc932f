package handler

import (
	"github.com/gofiber/fiber/v2"

	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/service/session"
	"restaurante-admin/internal/service/socket"
)

// RealtimeHandler exposes the gateway connection for the header indicator
// and lets the auth flow hand the operator's credential to this process.
type RealtimeHandler struct {
	socketService  socket.Service
	sessionService session.Service
}

func NewRealtimeHandler(socketService socket.Service, sessionService session.Service) *RealtimeHandler {
	return &RealtimeHandler{
		socketService:  socketService,
		sessionService: sessionService,
	}
}

func (h *RealtimeHandler) Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    h.socketService.Status(),
		"connected": h.socketService.IsConnected(),
	})
}

func (h *RealtimeHandler) Connect(c *fiber.Ctx) error {
	h.socketService.Connect()
	return c.Status(fiber.StatusAccepted).SendString("")
}

func (h *RealtimeHandler) Disconnect(c *fiber.Ctx) error {
	h.socketService.Disconnect()
	return c.Status(fiber.StatusNoContent).SendString("")
}

type setSessionInput struct {
	Token string `json:"token" validate:"required"`
}

// SetSession stores a fresh credential. The connection manager reconnects
// on its own when the token changes.
func (h *RealtimeHandler) SetSession(c *fiber.Ctx) error {
	var input setSessionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validateInput(input); err != nil {
		return err
	}

	if err := h.sessionService.SetToken(c.Context(), input.Token); err != nil {
		return middleware.Unauthorized("Invalid or expired token")
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *RealtimeHandler) ClearSession(c *fiber.Ctx) error {
	h.sessionService.Clear(c.Context())
	return c.Status(fiber.StatusNoContent).SendString("")
}
