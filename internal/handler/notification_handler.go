package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":   h.notifService.Server(),
		"unread": h.notifService.UnreadServer(),
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":         h.notifService.UnreadServer(),
		"total":         h.notifService.TotalUnread(),
		"por_categoria": h.notifService.CategoryUnread(),
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	h.notifService.MarkRead(notifID)
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	h.notifService.MarkAllRead()
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	h.notifService.RemoveServer(notifID)
	return c.Status(fiber.StatusNoContent).SendString("")
}

// Click marks the notification read and returns the route the UI should
// navigate to.
func (h *NotificationHandler) Click(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	route, ok := h.notifService.Click(notifID)
	if !ok {
		return middleware.NotFound("Notification not found")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": route})
}

// ResetCategory clears one badge counter when its view is opened.
func (h *NotificationHandler) ResetCategory(c *fiber.Ctx) error {
	category := categoryFromParam(c.Params("category"))
	if category == "" {
		return middleware.BadRequest("Invalid notification category")
	}

	h.notifService.ResetCategory(category)
	return c.Status(fiber.StatusNoContent).SendString("")
}
