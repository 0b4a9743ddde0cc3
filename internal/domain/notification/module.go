package notification

import (
	"blog_social/internal/domain/notification/handler"
	"blog_social/internal/domain/notification/repository"
	"blog_social/internal/domain/notification/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// NotificationModule 通知模块
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 5
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewNotificationRepository(ctx.DB)
	svc := service.NewNotificationService(repo, ctx.Cache, ctx.Dispatcher)
	h := handler.NewNotificationHandler(svc)

	setupRoutes(ctx, h)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.NotificationHandler) {
	g := ctx.Router.Group("/notifications")
	g.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		g.GET("", h.List)
		g.GET("/unread-count", h.UnreadCount)
	}
}
