package handlers

import (
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Notification Handlers (manager and above) ---
//

const latestNotifications = 20

// GetAdminNotifications is the handler for GET /v1/admin/notifications
// It returns the latest admin alerts, newest first.
func (h *Handlers) GetAdminNotifications(c *gin.Context) {
	notifications, err := h.Notifications.Latest(c.Request.Context(), models.RecipientAdmin, latestNotifications)
	if err != nil {
		h.respondError(c, err)
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread": unread})
}

// MarkNotificationRead is the handler for PATCH /v1/admin/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
