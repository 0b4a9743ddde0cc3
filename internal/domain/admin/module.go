package admin

import (
	"github.com/jmoiron/sqlx"

	"blog_social/internal/domain/admin/handler"
	"blog_social/internal/domain/admin/repository"
	"blog_social/internal/pkg/config"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/registry"
)

// AdminModule 管理后台模块
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	return 30
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	// 统计报表直接走 sqlx，与 gorm 共享同一个连接池
	driver := "postgres"
	if config.GlobalConfig.Database.Driver == "sqlite" {
		driver = "sqlite3"
	}
	db := sqlx.NewDb(sqlDB, driver)

	statsRepo := repository.NewStatsRepository(db)
	adminHandler := handler.NewAdminHandler(statsRepo)

	group := ctx.Router.Group("/admin")
	group.Use(middleware.AuthMiddleware(ctx.Sessions), middleware.AdminMiddleware())
	{
		group.GET("/stats", adminHandler.GetStats)
	}
	return nil
}
