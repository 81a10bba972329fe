package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes on an
// authenticated group. Both users and creators receive notifications.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns paginated notifications with the unread count.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	principalID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	skip := int64((page - 1) * limit)
	notifications, total, err := h.notificationRepository.GetByRecipient(c.Request().Context(), principalID, skip, int64(limit))
	if err != nil {
		return mapRepoError(err, "Notifications not found")
	}
	unread, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), principalID)
	if err != nil {
		return mapRepoError(err, "Notifications not found")
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": notifications,
			"unreadCount":   unread,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetUnreadCount returns the unread notification count.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	principalID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), principalID)
	if err != nil {
		return mapRepoError(err, "Notifications not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks one of the principal's notifications as read.
// Idempotent: marking a read notification again succeeds.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	principalID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	notifID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), notifID, principalID); err != nil {
		return mapRepoError(err, "Notification not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the principal's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	principalID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), principalID); err != nil {
		return mapRepoError(err, "Notifications not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
