package handler

import (
	"errors"
	"net/http"
	"strconv"

	"blog_social/internal/domain/message/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/pkg/response"
	"blog_social/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service service.MessageService
}

func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

// SendInput 发送私信输入
type SendInput struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parentId"`
}

// ReactionInput 消息表态输入
type ReactionInput struct {
	Reaction string `json:"reaction" binding:"required,max=20"`
}

// GetConversations 会话列表
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	conversations, err := h.service.GetConversations(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, conversations)
}

// GetThread 与某用户的消息记录（打开即标记已读）
func (h *MessageHandler) GetThread(c *gin.Context) {
	partnerID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	var p utils.Pagination
	c.ShouldBindQuery(&p)

	userID := middleware.CurrentUserID(c)
	messages, total, err := h.service.GetThread(userID, partnerID, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  messages,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// Send 发送私信
func (h *MessageHandler) Send(c *gin.Context) {
	receiverID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	var input SendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	senderID := middleware.CurrentUserID(c)
	message, err := h.service.Send(senderID, receiverID, input.Content, input.ParentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, message)
}

// Delete 删除自己发送的消息
func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid message id")
		return
	}

	if err := h.service.Delete(middleware.CurrentUserID(c), messageID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "deleted")
}

// React 给收到的消息表态
func (h *MessageHandler) React(c *gin.Context) {
	messageID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid message id")
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.React(middleware.CurrentUserID(c), messageID, input.Reaction); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "reacted")
}

func (h *MessageHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound), errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotSender), errors.Is(err, service.ErrNotParticipant):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrSelfMessage), errors.Is(err, service.ErrBadParent):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
