package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/spf-lend/backend/internal/application/notification"
)

// NotificationHandler handles the dashboard notification feed
type NotificationHandler struct {
	BaseHandler
	feedService *notificationapp.FeedService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(feedService *notificationapp.FeedService) *NotificationHandler {
	return &NotificationHandler{feedService: feedService}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.FeedListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.feedService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.feedService.UnreadCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread": count})
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.feedService.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.feedService.MarkAllRead(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
