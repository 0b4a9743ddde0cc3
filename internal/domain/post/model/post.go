package model

import baseModel "blog_social/pkg/model"

// 帖子审核状态
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// 媒体类型
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Post 帖子模型
type Post struct {
	baseModel.BaseModel
	Title     string `gorm:"size:200" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	Slug      string `gorm:"uniqueIndex;size:200" json:"slug"`
	AuthorID  uint   `gorm:"index" json:"authorId"`
	Author    string `gorm:"size:80" json:"author"` // 冗余用户名，列表展示免 join
	Status    string `gorm:"default:'pending';index" json:"status"`
	Tags      string `json:"tags"` // 逗号分隔的话题标签
	MediaURL  string `json:"mediaUrl"`
	MediaKind string `gorm:"size:20" json:"mediaKind"` // image, video，空表示纯文本

	// 关联
	Comments  []Comment  `json:"comments,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Comment 评论模型
type Comment struct {
	baseModel.BaseModel
	PostID   uint   `gorm:"index" json:"postId"`
	UserID   uint   `json:"userId"`
	Username string `gorm:"size:80" json:"username"`
	Content  string `json:"content"`
}

// Reaction 表态模型，每个 (user, post) 至多一条
type Reaction struct {
	baseModel.BaseModel
	UserID uint   `gorm:"uniqueIndex:idx_reaction_user_post" json:"userId"`
	PostID uint   `gorm:"uniqueIndex:idx_reaction_user_post" json:"postId"`
	Type   string `gorm:"size:20" json:"type"` // like, love, laugh, wow, sad, angry
}
