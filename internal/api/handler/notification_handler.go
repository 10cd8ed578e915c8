package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications and marks them read.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {array}   notificationResponse
// @Failure      401  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.notificationService.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationResponses(items))
}

// DeleteAll removes every notification addressed to the caller.
//
// @Summary      Delete notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /notifications [delete]
func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if _, err := h.notificationService.DeleteAll(c.Request().Context(), actor); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "notifications deleted successfully"})
}
