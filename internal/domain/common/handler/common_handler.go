package handler

import (
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"blog_social/internal/pkg/uploader"
	"blog_social/pkg/logger"
	"blog_social/pkg/response"

	"go.uber.org/zap"
)

// 单次请求的文件数量与并发上限
const (
	maxUploadFiles     = 9
	uploadConcurrency  = 5
	maxUploadSizeBytes = 20 << 20 // 20MB
)

// CommonHandler 通用接口（上传、健康检查）
type CommonHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	uploader uploader.Uploader
}

func NewCommonHandler(db *gorm.DB, rdb *redis.Client, up uploader.Uploader) *CommonHandler {
	return &CommonHandler{db: db, redis: rdb, uploader: up}
}

type uploadResult struct {
	index int
	url   string
	err   error
}

// Upload 批量上传文件到对象存储
// @Summary 上传图片或视频，返回访问 URL 列表
func (h *CommonHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrUploadFailed, "对象存储未配置")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "解析上传表单失败")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		// 兼容单文件字段
		if f, ferr := c.FormFile("file"); ferr == nil {
			files = []*multipart.FileHeader{f}
		}
	}
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "未选择文件")
		return
	}
	if len(files) > maxUploadFiles {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "单次最多上传 9 个文件")
		return
	}
	for _, f := range files {
		if f.Size > maxUploadSizeBytes {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "文件过大")
			return
		}
	}

	// 并发上传，信号量限制并发数
	results := make([]uploadResult, len(files))
	sem := make(chan struct{}, uploadConcurrency)
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(idx int, fh *multipart.FileHeader) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			url, err := h.uploader.UploadFile(fh)
			results[idx] = uploadResult{index: idx, url: url, err: err}
		}(i, file)
	}
	wg.Wait()

	urls := make([]string, 0, len(files))
	for _, r := range results {
		if r.err != nil {
			logger.Log.Error("文件上传失败", zap.Int("index", r.index), zap.Error(r.err))
			response.Error(c, http.StatusInternalServerError, response.ErrUploadFailed, "文件上传失败")
			return
		}
		urls = append(urls, r.url)
	}

	response.Success(c, gin.H{"urls": urls})
}

// Healthz 健康检查，探活数据库与 Redis
func (h *CommonHandler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()

	status := gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
	} else {
		status["database"] = "up"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		status["status"] = "degraded"
		status["redis"] = "down"
	} else {
		status["redis"] = "up"
	}

	if status["status"] == "ok" {
		response.Success(c, status)
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"code": response.ErrServerInternal, "message": "service degraded", "data": status})
}
