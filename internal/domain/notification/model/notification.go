package model

import baseModel "blog_social/pkg/model"

// 通知类型
const (
	TypeLike    = "like"
	TypeComment = "comment"
	TypeFollow  = "follow"
)

// Notification 通知模型
// 仅在 actor != recipient 时产生
type Notification struct {
	baseModel.BaseModel
	UserID   uint   `gorm:"index" json:"userId"` // 接收者
	SenderID uint   `json:"senderId"`            // 触发者
	PostID   uint   `json:"postId"`              // 关联帖子，follow 通知为 0
	Type     string `gorm:"size:30" json:"type"`
	Message  string `json:"message"`
	IsRead   bool   `gorm:"default:false;index" json:"isRead"`
}
