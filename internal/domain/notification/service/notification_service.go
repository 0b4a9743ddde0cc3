package service

import (
	"context"
	"fmt"
	"time"

	"blog_social/internal/domain/notification/model"
	"blog_social/internal/domain/notification/repository"
	"blog_social/internal/pkg/worker"
	"blog_social/pkg/cache"
	"blog_social/pkg/logger"

	"go.uber.org/zap"
)

// Notifier 供其他模块触发通知的最小接口
type Notifier interface {
	Notify(recipientID, senderID, postID uint, ntype, message string) error
}

// NotificationService 通知服务接口
type NotificationService interface {
	Notifier
	// List 返回通知并把未读的标记为已读（查看列表即视为已读）
	List(userID uint, page, limit int) ([]model.Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
}

const (
	unreadCountKeyPrefix = "notif:unread:"
	unreadCountTTL       = time.Minute * 5
)

type notificationService struct {
	repo       repository.NotificationRepository
	cache      cache.CacheService
	dispatcher *worker.Dispatcher // nil 表示未启用设备推送
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo repository.NotificationRepository, cache cache.CacheService, dispatcher *worker.Dispatcher) NotificationService {
	return &notificationService{
		repo:       repo,
		cache:      cache,
		dispatcher: dispatcher,
	}
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("%s%d", unreadCountKeyPrefix, userID)
}

// Notify 写入一条通知
// 自己触发的动作不通知自己
func (s *notificationService) Notify(recipientID, senderID, postID uint, ntype, message string) error {
	if recipientID == senderID {
		return nil
	}

	n := &model.Notification{
		UserID:   recipientID,
		SenderID: senderID,
		PostID:   postID,
		Type:     ntype,
		Message:  message,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}

	s.invalidateUnreadCount(recipientID)

	// 设备推送是尽力而为的附加通道，轮询接口才是主路径
	if s.dispatcher != nil {
		s.dispatcher.Enqueue(worker.PushTask{
			UserID: recipientID,
			Title:  "New activity",
			Body:   message,
			Ext:    map[string]string{"type": ntype},
		})
	}

	return nil
}

func (s *notificationService) List(userID uint, page, limit int) ([]model.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	notifications, total, err := s.repo.GetByUser(userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	// 查看即已读
	if err := s.repo.MarkAllRead(userID); err != nil {
		return nil, 0, err
	}
	s.invalidateUnreadCount(userID)

	return notifications, total, nil
}

// UnreadCount 未读数，短 TTL 缓存吸收轮询压力
func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	ctx := context.Background()
	key := unreadCountKey(userID)

	var cached int64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, count, unreadCountTTL); err != nil {
		logger.Log.Warn("failed to cache unread count", zap.Uint("userID", userID), zap.Error(err))
	}

	return count, nil
}

func (s *notificationService) invalidateUnreadCount(userID uint) {
	if err := s.cache.Delete(context.Background(), unreadCountKey(userID)); err != nil {
		logger.Log.Warn("failed to invalidate unread count cache", zap.Uint("userID", userID), zap.Error(err))
	}
}
