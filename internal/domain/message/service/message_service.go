package service

import (
	"errors"

	"blog_social/internal/domain/message/model"
	"blog_social/internal/domain/message/repository"
	userrepo "blog_social/internal/domain/user/repository"

	"gorm.io/gorm"
)

// 业务错误
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSender       = errors.New("only the sender can delete a message")
	ErrNotParticipant  = errors.New("not a participant of this conversation")
	ErrSelfMessage     = errors.New("cannot message yourself")
	ErrBadParent       = errors.New("parent message does not belong to this conversation")
	ErrUserNotFound    = errors.New("user not found")
)

// MessageService 私信服务接口
type MessageService interface {
	Send(senderID, receiverID uint, content string, parentID *uint) (*model.Message, error)
	// GetThread 返回与对方的消息记录，并把对方发来的未读消息标记已读
	GetThread(userID, partnerID uint, page, limit int) ([]model.Message, int64, error)
	Delete(userID, messageID uint) error
	// React 接收方给消息添加表态
	React(userID, messageID uint, reaction string) error
	GetConversations(userID uint) ([]model.Conversation, error)
}

type messageService struct {
	repo  repository.MessageRepository
	users userrepo.UserRepository
}

// NewMessageService 创建私信服务
func NewMessageService(repo repository.MessageRepository, users userrepo.UserRepository) MessageService {
	return &messageService{repo: repo, users: users}
}

// Send 发送私信，可选引用同一会话里的某条消息作为回复
func (s *messageService) Send(senderID, receiverID uint, content string, parentID *uint) (*model.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	if _, err := s.users.GetByID(receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.repo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBadParent
			}
			return nil, err
		}
		// 回复必须属于同一对用户
		sameThread := (parent.SenderID == senderID && parent.ReceiverID == receiverID) ||
			(parent.SenderID == receiverID && parent.ReceiverID == senderID)
		if !sameThread {
			return nil, ErrBadParent
		}
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ParentID:   parentID,
	}
	if err := s.repo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetThread 打开会话即把收到的消息标记已读
func (s *messageService) GetThread(userID, partnerID uint, page, limit int) ([]model.Message, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	messages, total, err := s.repo.GetThread(userID, partnerID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.repo.MarkThreadRead(userID, partnerID); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Delete 仅发送者可删除；回复消息的 parent_id 会被置空
func (s *messageService) Delete(userID, messageID uint) error {
	message, err := s.repo.GetByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if message.SenderID != userID {
		return ErrNotSender
	}

	return s.repo.Delete(messageID)
}

// React 只有接收方可以表态
func (s *messageService) React(userID, messageID uint, reaction string) error {
	message, err := s.repo.GetByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if message.ReceiverID != userID {
		return ErrNotParticipant
	}

	return s.repo.UpdateReaction(messageID, reaction)
}

// GetConversations 私信首页：会话伙伴 + 未读数
func (s *messageService) GetConversations(userID uint) ([]model.Conversation, error) {
	rows, err := s.repo.GetConversationRows(userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnreadBySender(userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(rows))
	for _, row := range rows {
		partner, err := s.users.GetByID(row.PartnerID)
		if err != nil {
			// 对方账号可能已被删除，跳过而不是让整页失败
			continue
		}
		conversations = append(conversations, model.Conversation{
			PartnerID:   row.PartnerID,
			Partner:     partner.Username,
			LastContent: row.LastContent,
			LastAt:      row.LastAt,
			UnreadCount: unread[row.PartnerID],
		})
	}
	return conversations, nil
}
