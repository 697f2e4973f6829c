package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"livefeed/internal/domain"
	"livefeed/internal/http/dto"
	"livefeed/internal/http/middleware"
	"livefeed/internal/http/resp"
	"livefeed/internal/sse"
)

const maxMarkIDs = 500

func (h *Handler) ListNotifications(c *gin.Context) {
	items := h.agg.Aggregate(c.Request.Context(), middleware.UserID(c))
	unread := 0
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, dto.NotificationsResponse{Items: items, UnreadCount: unread})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count := h.agg.UnreadCount(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := domain.KindOf(id); !ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrInvalidKind.Error() + ": " + id})
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrInvalidIDs.Error()})
		return
	}
	if len(ids) > maxMarkIDs {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: domain.ErrTooManyIDs.Error()})
		return
	}

	userID := middleware.UserID(c)
	marked := h.reads.MarkRead(c.Request.Context(), userID, ids)
	if marked > 0 {
		h.notifier.Notify(c.Request.Context(), userID, sse.ReasonReadState)
	}
	h.log.Debug("notifications marked read", zap.String("user_id", userID), zap.Int("marked", marked))
	c.JSON(http.StatusOK, dto.MarkReadResponse{Marked: marked})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := middleware.UserID(c)
	ids := h.agg.MarkAllRead(c.Request.Context(), userID)
	if len(ids) > 0 {
		h.notifier.Notify(c.Request.Context(), userID, sse.ReasonReadState)
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Marked: len(ids), IDs: ids})
}
