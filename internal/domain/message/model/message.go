package model

import baseModel "blog_social/pkg/model"

// Message 私信模型
// ParentID 指向被回复的消息，父消息删除后被置空
type Message struct {
	baseModel.BaseModel
	SenderID   uint   `gorm:"index" json:"senderId"`
	ReceiverID uint   `gorm:"index" json:"receiverId"`
	Content    string `json:"content"`
	IsRead     bool   `gorm:"default:false" json:"isRead"`
	ParentID   *uint  `json:"parentId,omitempty"`
	Reaction   string `gorm:"size:20" json:"reaction,omitempty"` // 接收方的表态，空表示无
}

// Conversation 会话摘要，私信列表页使用
type Conversation struct {
	PartnerID   uint   `json:"partnerId"`
	Partner     string `json:"partner"`
	LastContent string `json:"lastContent"`
	LastAt      string `json:"lastAt"`
	UnreadCount int64  `json:"unreadCount"`
}
