package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blog_social/internal/domain/admin/repository"
	"blog_social/pkg/logger"
	"blog_social/pkg/response"

	"go.uber.org/zap"
)

// AdminHandler 管理后台接口
type AdminHandler struct {
	stats repository.StatsRepository
}

func NewAdminHandler(stats repository.StatsRepository) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// GetStats 站点总览
// @Summary 管理员查看站点统计
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GetStats()
	if err != nil {
		logger.Log.Error("查询站点统计失败", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "查询统计失败")
		return
	}

	topLimit, _ := strconv.Atoi(c.DefaultQuery("top", "5"))
	topPosts, err := h.stats.GetTopPosts(topLimit)
	if err != nil {
		logger.Log.Error("查询热门帖子失败", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "查询统计失败")
		return
	}

	response.Success(c, gin.H{
		"totals":    stats,
		"top_posts": topPosts,
	})
}
