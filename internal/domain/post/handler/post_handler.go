package handler

import (
	"errors"
	"net/http"
	"strconv"

	"blog_social/internal/domain/post/model"
	"blog_social/internal/domain/post/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/uploader"
	"blog_social/pkg/response"
	"blog_social/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service  service.PostService
	uploader uploader.Uploader
}

func NewPostHandler(s service.PostService, up uploader.Uploader) *PostHandler {
	return &PostHandler{service: s, uploader: up}
}

// UpdateInput 编辑帖子输入
type UpdateInput struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Tags    string `json:"tags"`
}

// CommentInput 评论输入
type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// ReactionInput 表态输入
type ReactionInput struct {
	Type string `json:"type" binding:"required,oneof=like love laugh wow sad angry"`
}

// CreatePost 创建帖子
// @Summary 发布帖子（multipart，可选媒体文件；非管理员帖子进入待审核）
// @Tags Post
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "标题"
// @Param content formData string true "正文"
// @Param tags formData string false "话题标签，逗号分隔"
// @Param media formData file false "图片或视频"
// @Success 200 {object} model.Post
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	tags := c.PostForm("tags")
	if title == "" || content == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "title and content are required")
		return
	}

	// 媒体先上传，失败则中止，不写半个帖子
	var mediaURL, mediaKind string
	if file, err := c.FormFile("media"); err == nil {
		if h.uploader == nil {
			response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "object storage is not configured")
			return
		}
		url, err := h.uploader.UploadFile(file)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "media upload failed: "+err.Error())
			return
		}
		mediaURL = url
		mediaKind = mediaKindOf(file.Header.Get("Content-Type"))
	}

	userID := middleware.CurrentUserID(c)
	post, err := h.service.CreatePost(userID, title, content, tags, mediaURL, mediaKind)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, post)
}

// UpdatePost 编辑帖子（作者或管理员）
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	post, err := h.service.UpdatePost(middleware.CurrentUserID(c), middleware.IsAdmin(c),
		postID, input.Title, input.Content, input.Tags)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除帖子（作者或管理员）
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	if err := h.service.DeletePost(middleware.CurrentUserID(c), middleware.IsAdmin(c), postID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "deleted")
}

// ApprovePost 审核通过（管理员）
func (h *PostHandler) ApprovePost(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	if err := h.service.ApprovePost(postID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "approved")
}

// RejectPost 审核拒绝并删除（管理员）
func (h *PostHandler) RejectPost(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	if err := h.service.RejectPost(postID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "rejected")
}

// GetFeed 公开帖子列表
// @Summary 获取公开帖子列表
// @Tags Post
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param tab query string false "all / video / following"
// @Success 200 {object} utils.PageResult
// @Router /posts/feed [get]
func (h *PostHandler) GetFeed(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)
	tab := c.Query("tab")

	viewerID := middleware.CurrentUserID(c)
	if tab == "following" && viewerID == 0 {
		response.Error(c, http.StatusUnauthorized, response.ErrSessionInvalid, "login required for the following tab")
		return
	}

	posts, total, err := h.service.GetFeed(tab, viewerID, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  posts,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetPending 待审核列表（管理员）
func (h *PostHandler) GetPending(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	posts, total, err := h.service.GetPending(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  posts,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetPostBySlug 帖子详情
func (h *PostHandler) GetPostBySlug(c *gin.Context) {
	detail, err := h.service.GetPostBySlug(c.Param("slug"), middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// Search 搜索帖子
func (h *PostHandler) Search(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	posts, total, err := h.service.Search(c.Query("q"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  posts,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// AddComment 发表评论
func (h *PostHandler) AddComment(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.service.AddComment(middleware.CurrentUserID(c), postID, input.Content)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除自己的评论
func (h *PostHandler) DeleteComment(c *gin.Context) {
	commentID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid comment id")
		return
	}

	if err := h.service.DeleteComment(middleware.CurrentUserID(c), commentID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, "deleted")
}

// GetComments 评论列表
func (h *PostHandler) GetComments(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	var p utils.Pagination
	c.ShouldBindQuery(&p)

	comments, total, err := h.service.GetComments(postID, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  comments,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// ToggleReaction 表态/取消表态
func (h *PostHandler) ToggleReaction(c *gin.Context) {
	postID, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid post id")
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidReaction, err.Error())
		return
	}

	state, err := h.service.ToggleReaction(middleware.CurrentUserID(c), postID, input.Type)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"state": state})
}

// writeServiceError 业务错误到 HTTP 响应的映射
func (h *PostHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotApproved), errors.Is(err, service.ErrAlreadyModerated):
		response.Error(c, http.StatusBadRequest, response.ErrPostNotApproved, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

// mediaKindOf 根据 Content-Type 推断媒体类型
func mediaKindOf(contentType string) string {
	if len(contentType) >= 5 && contentType[:5] == "video" {
		return model.MediaVideo
	}
	return model.MediaImage
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
