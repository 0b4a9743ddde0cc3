package message

import (
	"blog_social/internal/domain/message/handler"
	"blog_social/internal/domain/message/repository"
	"blog_social/internal/domain/message/service"
	userrepo "blog_social/internal/domain/user/repository"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// MessageModule 私信模块
type MessageModule struct{}

func init() {
	registry.Register(&MessageModule{})
}

func (m *MessageModule) Name() string {
	return "message"
}

func (m *MessageModule) Priority() int {
	return 20
}

func (m *MessageModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewMessageRepository(ctx.DB)
	users := userrepo.NewUserRepository(ctx.DB)
	svc := service.NewMessageService(repo, users)
	h := handler.NewMessageHandler(svc)

	setupRoutes(ctx, h)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.MessageHandler) {
	g := ctx.Router.Group("/messages")
	g.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		g.GET("", h.GetConversations)
		g.GET("/:id", h.GetThread)
		g.POST("/:id", h.Send)
		g.DELETE("/:id", h.Delete)
		g.PUT("/:id/reaction", h.React)
	}
}
