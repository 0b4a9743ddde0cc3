package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_social/internal/domain/notification/model"
	"blog_social/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationService is a mock of NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(recipientID, senderID, postID uint, ntype, message string) error {
	args := m.Called(recipientID, senderID, postID, ntype, message)
	return args.Error(0)
}

func (m *MockNotificationService) List(userID uint, page, limit int) ([]model.Notification, int64, error) {
	args := m.Called(userID, page, limit)
	return args.Get(0).([]model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) UnreadCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeAuth 直接往上下文注入登录态，跳过会话存储
func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func setupRouter(svc *MockNotificationService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewNotificationHandler(svc)
	g := r.Group("/notifications", fakeAuth(userID))
	g.GET("", h.List)
	g.GET("/unread-count", h.UnreadCount)
	return r
}

func TestListHandler(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupRouter(svc, 7)

	n := model.Notification{UserID: 7, Type: model.TypeComment, Message: "alice commented"}
	svc.On("List", uint(7), 2, 10).Return([]model.Notification{n}, int64(11), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications?page=2&limit=10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeSuccess, body.Code)
	svc.AssertExpectations(t)
}

func TestUnreadCountHandler(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupRouter(svc, 7)

	svc.On("UnreadCount", uint(7)).Return(int64(3), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unreadCount":3`)
	svc.AssertExpectations(t)
}
