package common

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blog_social/internal/domain/common/handler"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// CommonModule 通用模块：上传、健康检查、指标
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	commonHandler := handler.NewCommonHandler(ctx.DB, ctx.Redis, ctx.Uploader)

	ctx.Router.GET("/healthz", commonHandler.Healthz)
	ctx.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := ctx.Router.Group("")
	auth.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		auth.POST("/upload", commonHandler.Upload)
	}
	return nil
}
