package handler

import (
	"errors"
	"net/http"
	"strconv"

	"blog_social/internal/domain/user/model"
	"blog_social/internal/domain/user/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/session"
	"blog_social/internal/pkg/uploader"
	"blog_social/pkg/response"
	"blog_social/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service  service.UserService
	sessions *session.Store
	uploader uploader.Uploader
}

func NewUserHandler(s service.UserService, sessions *session.Store, up uploader.Uploader) *UserHandler {
	return &UserHandler{service: s, sessions: sessions, uploader: up}
}

// CredentialsInput 注册/登录输入
type CredentialsInput struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册
// @Summary 注册新用户（首个用户自动成为管理员）
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body CredentialsInput true "账号密码"
// @Success 200 {object} model.User
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// Login 登录，下发会话 cookie，同时返回 API Token
func (h *UserHandler) Login(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), session.Data{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	c.SetCookie(h.sessions.CookieName(), token, h.sessions.CookieMaxAge(), "/", "", h.sessions.CookieSecure(), true)

	apiToken, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"user":  user,
		"token": apiToken,
	})
}

// Logout 登出，销毁会话
func (h *UserHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.sessions.CookieName()); err == nil && token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
			return
		}
	}

	c.SetCookie(h.sessions.CookieName(), "", -1, "/", "", h.sessions.CookieSecure(), true)
	response.Success(c, "logged out")
}

// GetProfile 用户主页
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	profile, err := h.service.GetProfile(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新当前用户资料
// multipart 表单，头像/背景图可选；上传失败则整个请求失败，不落库
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	// 表单里没带 bio 字段就保持原值，带了空值表示清空
	var bio *string
	if v, ok := c.GetPostForm("bio"); ok {
		bio = &v
	}

	avatarURL, err := h.uploadFormFile(c, "avatar")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "avatar upload failed: "+err.Error())
		return
	}
	backgroundURL, err := h.uploadFormFile(c, "background")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "background upload failed: "+err.Error())
		return
	}

	user, err := h.service.UpdateProfile(userID, bio, avatarURL, backgroundURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// ToggleFollow 关注/取关
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	followedID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	followerID := middleware.CurrentUserID(c)
	following, err := h.service.ToggleFollow(followerID, followedID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			response.Error(c, http.StatusBadRequest, response.ErrSelfFollow, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"following": following})
}

// GetFollowers 粉丝列表
func (h *UserHandler) GetFollowers(c *gin.Context) {
	h.listRelations(c, h.service.GetFollowers)
}

// GetFollowing 关注列表
func (h *UserHandler) GetFollowing(c *gin.Context) {
	h.listRelations(c, h.service.GetFollowing)
}

func (h *UserHandler) listRelations(c *gin.Context, fetch func(uint, int, int) ([]model.User, int64, error)) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid user id")
		return
	}

	var p utils.Pagination
	c.ShouldBindQuery(&p)

	users, total, err := fetch(id, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// uploadFormFile 上传可选的表单文件，未携带文件时返回空 URL
func (h *UserHandler) uploadFormFile(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// 没带文件不算错误
		return "", nil
	}
	if h.uploader == nil {
		return "", errors.New("object storage is not configured")
	}
	return h.uploader.UploadFile(file)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
