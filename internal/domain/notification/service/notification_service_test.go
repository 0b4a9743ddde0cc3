package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"blog_social/internal/domain/notification/model"
	"blog_social/pkg/cache"
	"blog_social/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.Init(true)
}

// MockNotificationRepository is a mock of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *model.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUser(userID uint, offset, limit int) ([]model.Notification, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkAllRead(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCache 可命中的内存缓存
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

func TestNotify(t *testing.T) {
	t.Run("Creates notification for another user", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo, newMemoryCache(), nil)

		mockRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == 2 && n.SenderID == 1 && n.Type == model.TypeComment
		})).Return(nil)

		err := service.Notify(2, 1, 5, model.TypeComment, "alice commented")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Own action is silent", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo, newMemoryCache(), nil)

		err := service.Notify(1, 1, 5, model.TypeLike, "self like")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestList(t *testing.T) {
	t.Run("Listing marks everything read", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo, newMemoryCache(), nil)

		unread := model.Notification{UserID: 1, Type: model.TypeFollow}
		mockRepo.On("GetByUser", uint(1), 0, 20).Return([]model.Notification{unread}, int64(1), nil)
		mockRepo.On("MarkAllRead", uint(1)).Return(nil)

		notifications, total, err := service.List(1, 1, 20)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, notifications, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestUnreadCount(t *testing.T) {
	t.Run("Second call is served from cache", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo, newMemoryCache(), nil)

		mockRepo.On("CountUnread", uint(1)).Return(int64(3), nil).Once()

		count, err := service.UnreadCount(1)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = service.UnreadCount(1)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		mockRepo.AssertNumberOfCalls(t, "CountUnread", 1)
	})

	t.Run("New notification invalidates the cached count", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo, newMemoryCache(), nil)

		mockRepo.On("CountUnread", uint(2)).Return(int64(0), nil).Once()
		_, _ = service.UnreadCount(2)

		mockRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)
		assert.NoError(t, service.Notify(2, 1, 0, model.TypeFollow, "alice started following you"))

		mockRepo.On("CountUnread", uint(2)).Return(int64(1), nil).Once()
		count, err := service.UnreadCount(2)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
