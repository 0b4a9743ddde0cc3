package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"blog_social/internal/pkg/config"
	"blog_social/internal/pkg/middleware"
	"blog_social/internal/pkg/push"
	"blog_social/internal/pkg/registry"
	"blog_social/internal/pkg/session"
	"blog_social/internal/pkg/uploader"
	"blog_social/internal/pkg/worker"
	"blog_social/pkg/cache"
	"blog_social/pkg/database"
	"blog_social/pkg/logger"

	messagemodel "blog_social/internal/domain/message/model"
	notificationmodel "blog_social/internal/domain/notification/model"
	postmodel "blog_social/internal/domain/post/model"
	usermodel "blog_social/internal/domain/user/model"

	// 注册各业务模块
	_ "blog_social/internal/domain/admin"
	_ "blog_social/internal/domain/common"
	_ "blog_social/internal/domain/message"
	_ "blog_social/internal/domain/notification"
	_ "blog_social/internal/domain/post"
	_ "blog_social/internal/domain/user"
)

func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	logger.Init(cfg.App.Debug)
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDatabase()
	// sqlite 场景（本地开发、测试环境）直接自动建表，postgres 走 migrations
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(
			&usermodel.User{}, &usermodel.Follow{},
			&postmodel.Post{}, &postmodel.Comment{}, &postmodel.Reaction{},
			&messagemodel.Message{},
			&notificationmodel.Notification{},
		); err != nil {
			logger.Log.Fatal("自动建表失败", zap.Error(err))
		}
	}
	database.StartPoolMonitor(db, 15*time.Second)

	rdb := database.InitRedis()
	cacheService := cache.NewRedisCache(rdb)
	sessionStore := session.NewStore(rdb)

	// 未配置对象存储时上传功能不可用，其余功能不受影响
	var up uploader.Uploader
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossUploader, err := uploader.NewAliyunOSSUploader(cfg.OSS)
		if err != nil {
			logger.Log.Fatal("初始化对象存储失败", zap.Error(err))
		}
		up = ossUploader
	} else {
		logger.Log.Warn("对象存储未配置，上传接口将不可用")
	}

	// 离线推送是可选渠道，通知以站内轮询为主
	var dispatcher *worker.Dispatcher
	if cfg.Push.Enabled {
		pushService, err := push.NewAliyunPushService(cfg.Push)
		if err != nil {
			logger.Log.Fatal("初始化推送服务失败", zap.Error(err))
		}
		dispatcher = worker.NewDispatcher(pushService, 4, 1024)
		dispatcher.Start()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(20), 40)))

	moduleCtx := &registry.ModuleContext{
		DB:         db,
		Redis:      rdb,
		Router:     router,
		Cache:      cacheService,
		Sessions:   sessionStore,
		Uploader:   up,
		Dispatcher: dispatcher,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("模块初始化失败", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("收到退出信号，开始关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("服务关闭异常", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
	logger.Log.Info("服务已退出")
}
