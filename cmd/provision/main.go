// provision 应急运维工具：把已注册用户提升为管理员。
// 幂等，可重复执行。用户名优先取 -username 参数，其次取配置 app.admin_username。
package main

import (
	"flag"
	"log"

	"blog_social/internal/domain/user/repository"
	"blog_social/internal/domain/user/service"
	"blog_social/internal/pkg/config"
	"blog_social/pkg/database"
	"blog_social/pkg/logger"
)

func main() {
	username := flag.String("username", "", "要提升为管理员的用户名")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	name := *username
	if name == "" {
		name = config.GlobalConfig.App.AdminUsername
	}
	if name == "" {
		log.Fatal("请通过 -username 或配置 app.admin_username 指定用户名")
	}

	db := database.InitDatabase()
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, nil)

	if err := userService.PromoteToAdmin(name); err != nil {
		log.Fatalf("提升管理员失败: %v", err)
	}
	log.Printf("用户 %s 已是管理员", name)
}
