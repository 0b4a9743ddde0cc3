package user

import (
	"blog_social/internal/domain/notification/repository"
	notifservice "blog_social/internal/domain/notification/service"
	"blog_social/internal/domain/user/handler"
	userrepo "blog_social/internal/domain/user/repository"
	"blog_social/internal/domain/user/service"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，其他模块依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := userrepo.NewUserRepository(ctx.DB)
	notifier := notifservice.NewNotificationService(
		repository.NewNotificationRepository(ctx.DB), ctx.Cache, ctx.Dispatcher)
	svc := service.NewUserService(repo, notifier)
	h := handler.NewUserHandler(svc, ctx.Sessions, ctx.Uploader)

	// 2. 路由注册
	setupRoutes(ctx, h)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.UserHandler) {
	r := ctx.Router

	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	authGroup.POST("/logout", middleware.AuthMiddleware(ctx.Sessions), h.Logout)

	userGroup := r.Group("/users")
	{
		userGroup.GET("/:id", h.GetProfile)
		userGroup.GET("/:id/followers", h.GetFollowers)
		userGroup.GET("/:id/following", h.GetFollowing)
	}

	// 受保护的路由
	auth := r.Group("/users")
	auth.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		auth.PUT("/me", h.UpdateProfile)
		auth.POST("/:id/follow", h.ToggleFollow)
	}
}
