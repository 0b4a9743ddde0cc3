package repository

import (
	"blog_social/internal/domain/message/model"

	"gorm.io/gorm"
)

// ConversationRow 会话聚合查询结果
type ConversationRow struct {
	PartnerID   uint   `json:"partnerId"`
	LastAt      string `json:"lastAt"`
	LastContent string `json:"lastContent"`
}

// MessageRepository 接口定义
type MessageRepository interface {
	Create(message *model.Message) error
	GetByID(id uint) (*model.Message, error)
	// GetThread 两个用户之间的消息，按时间正序
	GetThread(userA, userB uint, offset, limit int) ([]model.Message, int64, error)
	// MarkThreadRead 把 sender 发给 receiver 的未读消息标记已读
	MarkThreadRead(receiverID, senderID uint) error
	// Delete 删除消息并将其回复的 parent_id 置空
	Delete(id uint) error
	UpdateReaction(id uint, reaction string) error
	GetConversationRows(userID uint) ([]ConversationRow, error)
	CountUnreadBySender(receiverID uint) (map[uint]int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建仓库实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) GetByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("id = ?", id).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) GetThread(userA, userB uint, offset, limit int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	query := r.db.Model(&model.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepository) MarkThreadRead(receiverID, senderID uint) error {
	return r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true).Error
}

// Delete 事务内删除，回复先解除父引用
func (r *messageRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Message{}).Error
	})
}

func (r *messageRepository) UpdateReaction(id uint, reaction string) error {
	return r.db.Model(&model.Message{}).Where("id = ?", id).Update("reaction", reaction).Error
}

// GetConversationRows 会话伙伴列表，按最近一条消息倒序
// CASE 表达式在 postgres 和 sqlite 下都可用
func (r *messageRepository) GetConversationRows(userID uint) ([]ConversationRow, error) {
	var rows []ConversationRow
	err := r.db.Raw(`
		SELECT
			t.partner_id,
			t.last_at,
			(SELECT m.content FROM messages m
			 WHERE (m.sender_id = ? AND m.receiver_id = t.partner_id)
			    OR (m.sender_id = t.partner_id AND m.receiver_id = ?)
			 ORDER BY m.created_at DESC LIMIT 1) AS last_content
		FROM (
			SELECT
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
				MAX(created_at) AS last_at
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY partner_id
		) t
		ORDER BY t.last_at DESC`,
		userID, userID, userID, userID, userID).Scan(&rows).Error
	return rows, err
}

// CountUnreadBySender 按发送者分组的未读数
func (r *messageRepository) CountUnreadBySender(receiverID uint) (map[uint]int64, error) {
	type row struct {
		SenderID uint
		Count    int64
	}
	var results []row

	err := r.db.Model(&model.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Group("sender_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(results))
	for _, r := range results {
		counts[r.SenderID] = r.Count
	}
	return counts, nil
}
