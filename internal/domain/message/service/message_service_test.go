package service

import (
	"testing"
	"time"

	"blog_social/internal/domain/message/model"
	"blog_social/internal/domain/message/repository"
	usermodel "blog_social/internal/domain/user/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockMessageRepository is a mock of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *model.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(id uint) (*model.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) GetThread(userA, userB uint, offset, limit int) ([]model.Message, int64, error) {
	args := m.Called(userA, userB, offset, limit)
	return args.Get(0).([]model.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) MarkThreadRead(receiverID, senderID uint) error {
	args := m.Called(receiverID, senderID)
	return args.Error(0)
}

func (m *MockMessageRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMessageRepository) UpdateReaction(id uint, reaction string) error {
	args := m.Called(id, reaction)
	return args.Error(0)
}

func (m *MockMessageRepository) GetConversationRows(userID uint) ([]repository.ConversationRow, error) {
	args := m.Called(userID)
	return args.Get(0).([]repository.ConversationRow), args.Error(1)
}

func (m *MockMessageRepository) CountUnreadBySender(receiverID uint) (map[uint]int64, error) {
	args := m.Called(receiverID)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

// MockUserLookup is a mock of the user repository used by MessageService
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) Create(user *usermodel.User) error { return m.Called(user).Error(0) }

func (m *MockUserLookup) GetByID(id uint) (*usermodel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usermodel.User), args.Error(1)
}

func (m *MockUserLookup) GetByUsername(username string) (*usermodel.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usermodel.User), args.Error(1)
}

func (m *MockUserLookup) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserLookup) Update(user *usermodel.User) error { return m.Called(user).Error(0) }

func (m *MockUserLookup) UpdateRole(userID uint, role int) error {
	return m.Called(userID, role).Error(0)
}

func (m *MockUserLookup) UpdateLastSeen(userID uint, at time.Time) error {
	return m.Called(userID, at).Error(0)
}

func (m *MockUserLookup) CountApprovedPosts(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserLookup) CreateFollow(f *usermodel.Follow) error { return m.Called(f).Error(0) }

func (m *MockUserLookup) DeleteFollow(followerID, followedID uint) error {
	return m.Called(followerID, followedID).Error(0)
}

func (m *MockUserLookup) HasFollow(followerID, followedID uint) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserLookup) GetFollowers(userID uint, offset, limit int) ([]usermodel.User, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]usermodel.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserLookup) GetFollowing(userID uint, offset, limit int) ([]usermodel.User, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]usermodel.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserLookup) CountFollowers(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserLookup) CountFollowing(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func testReceiver(id uint) *usermodel.User {
	u := &usermodel.User{Username: "receiver", Role: usermodel.RoleUser}
	u.ID = id
	return u
}

func messageBetween(id, senderID, receiverID uint) *model.Message {
	msg := &model.Message{SenderID: senderID, ReceiverID: receiverID, Content: "hi"}
	msg.ID = id
	return msg
}

func TestSend(t *testing.T) {
	t.Run("Plain message", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserLookup)
		service := NewMessageService(mockRepo, mockUsers)

		mockUsers.On("GetByID", uint(2)).Return(testReceiver(2), nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.Message")).Return(nil)

		msg, err := service.Send(1, 2, "hello", nil)

		assert.NoError(t, err)
		assert.Equal(t, uint(1), msg.SenderID)
		assert.False(t, msg.IsRead)
	})

	t.Run("Self message rejected", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		_, err := service.Send(1, 1, "hello me", nil)

		assert.ErrorIs(t, err, ErrSelfMessage)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Reply must stay in the same conversation", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserLookup)
		service := NewMessageService(mockRepo, mockUsers)

		mockUsers.On("GetByID", uint(2)).Return(testReceiver(2), nil)
		// 父消息属于 3 和 4 的会话
		parentID := uint(9)
		mockRepo.On("GetByID", parentID).Return(messageBetween(9, 3, 4), nil)

		_, err := service.Send(1, 2, "reply", &parentID)

		assert.ErrorIs(t, err, ErrBadParent)
	})

	t.Run("Reply to own conversation works both directions", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserLookup)
		service := NewMessageService(mockRepo, mockUsers)

		mockUsers.On("GetByID", uint(2)).Return(testReceiver(2), nil)
		parentID := uint(9)
		// 父消息是对方发来的
		mockRepo.On("GetByID", parentID).Return(messageBetween(9, 2, 1), nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.Message")).Return(nil)

		msg, err := service.Send(1, 2, "reply", &parentID)

		assert.NoError(t, err)
		assert.Equal(t, parentID, *msg.ParentID)
	})

	t.Run("Unknown receiver", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserLookup)
		service := NewMessageService(mockRepo, mockUsers)

		mockUsers.On("GetByID", uint(42)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Send(1, 42, "hello", nil)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetThread(t *testing.T) {
	t.Run("Opening a thread marks it read", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		mockRepo.On("GetThread", uint(1), uint(2), 0, 50).
			Return([]model.Message{*messageBetween(9, 2, 1)}, int64(1), nil)
		mockRepo.On("MarkThreadRead", uint(1), uint(2)).Return(nil)

		messages, total, err := service.GetThread(1, 2, 1, 50)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, messages, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Sender can delete", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		mockRepo.On("GetByID", uint(9)).Return(messageBetween(9, 1, 2), nil)
		mockRepo.On("Delete", uint(9)).Return(nil)

		assert.NoError(t, service.Delete(1, 9))
	})

	t.Run("Receiver cannot delete", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		mockRepo.On("GetByID", uint(9)).Return(messageBetween(9, 1, 2), nil)

		assert.ErrorIs(t, service.Delete(2, 9), ErrNotSender)
		mockRepo.AssertNotCalled(t, "Delete")
	})
}

func TestReact(t *testing.T) {
	t.Run("Receiver reacts", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		mockRepo.On("GetByID", uint(9)).Return(messageBetween(9, 1, 2), nil)
		mockRepo.On("UpdateReaction", uint(9), "heart").Return(nil)

		assert.NoError(t, service.React(2, 9, "heart"))
	})

	t.Run("Sender cannot react to own message", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		service := NewMessageService(mockRepo, new(MockUserLookup))

		mockRepo.On("GetByID", uint(9)).Return(messageBetween(9, 1, 2), nil)

		assert.ErrorIs(t, service.React(1, 9, "heart"), ErrNotParticipant)
	})
}

func TestGetConversations(t *testing.T) {
	t.Run("Deleted partner is skipped", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserLookup)
		service := NewMessageService(mockRepo, mockUsers)

		mockRepo.On("GetConversationRows", uint(1)).Return([]repository.ConversationRow{
			{PartnerID: 2, LastAt: "2026-08-01 10:00:00", LastContent: "see you"},
			{PartnerID: 3, LastAt: "2026-07-30 09:00:00", LastContent: "bye"},
		}, nil)
		mockRepo.On("CountUnreadBySender", uint(1)).Return(map[uint]int64{2: 4}, nil)
		mockUsers.On("GetByID", uint(2)).Return(testReceiver(2), nil)
		mockUsers.On("GetByID", uint(3)).Return(nil, gorm.ErrRecordNotFound)

		conversations, err := service.GetConversations(1)

		assert.NoError(t, err)
		assert.Len(t, conversations, 1)
		assert.Equal(t, uint(2), conversations[0].PartnerID)
		assert.Equal(t, int64(4), conversations[0].UnreadCount)
		assert.Equal(t, "see you", conversations[0].LastContent)
	})
}
