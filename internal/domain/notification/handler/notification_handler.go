package handler

import (
	"net/http"

	"blog_social/internal/domain/notification/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/pkg/response"
	"blog_social/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// List 通知列表
// @Summary 获取通知列表（查看后自动标记已读）
// @Tags Notification
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	userID := middleware.CurrentUserID(c)
	notifications, total, err := h.service.List(userID, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  notifications,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// UnreadCount 未读通知数，供客户端轮询
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	count, err := h.service.UnreadCount(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"unreadCount": count})
}
