package post

import (
	notifrepo "blog_social/internal/domain/notification/repository"
	notifservice "blog_social/internal/domain/notification/service"
	"blog_social/internal/domain/post/handler"
	"blog_social/internal/domain/post/repository"
	"blog_social/internal/domain/post/service"
	userrepo "blog_social/internal/domain/user/repository"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// PostModule 帖子模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewPostRepository(ctx.DB)
	users := userrepo.NewUserRepository(ctx.DB)
	notifier := notifservice.NewNotificationService(
		notifrepo.NewNotificationRepository(ctx.DB), ctx.Cache, ctx.Dispatcher)
	svc := service.NewPostService(repo, users, notifier, ctx.Cache)
	h := handler.NewPostHandler(svc, ctx.Uploader)

	// 2. 路由注册
	setupRoutes(ctx, h)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.PostHandler) {
	r := ctx.Router

	// 公开列表和详情
	g := r.Group("/posts")
	g.GET("/feed", middleware.OptionalAuth(ctx.Sessions), h.GetFeed)
	g.GET("/search", h.Search)
	g.GET("/:id/comments", h.GetComments)

	// 详情按 slug 访问
	r.GET("/post/:slug", middleware.OptionalAuth(ctx.Sessions), h.GetPostBySlug)

	// 登录用户
	auth := r.Group("")
	auth.Use(middleware.AuthMiddleware(ctx.Sessions))
	{
		auth.POST("/posts", h.CreatePost)
		auth.PUT("/posts/:id", h.UpdatePost)
		auth.DELETE("/posts/:id", h.DeletePost)
		auth.POST("/posts/:id/react", h.ToggleReaction)
		auth.POST("/posts/:id/comments", h.AddComment)
		auth.DELETE("/comments/:id", h.DeleteComment)
	}

	// 管理员
	admin := r.Group("/posts")
	admin.Use(middleware.AuthMiddleware(ctx.Sessions), middleware.AdminMiddleware())
	{
		admin.GET("/pending", h.GetPending)
		admin.PUT("/:id/approve", h.ApprovePost)
		admin.PUT("/:id/reject", h.RejectPost)
	}
}
