package model

import (
	"time"

	baseModel "blog_social/pkg/model"
)

// 用户角色
const (
	RoleUser  = 1
	RoleAdmin = 2
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Username      string     `gorm:"uniqueIndex;size:80" json:"username"`
	Password      string     `json:"-"` // 密码哈希不返回给前端
	Role          int        `gorm:"default:1" json:"role"`
	Bio           string     `gorm:"size:500" json:"bio"`
	AvatarURL     string     `json:"avatarUrl"`
	BackgroundURL string     `json:"backgroundUrl"`
	LastSeen      *time.Time `json:"lastSeen,omitempty"`
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Follow 关注关系，(follower, followed) 联合主键保证每对至多一条边
type Follow struct {
	FollowerID uint      `gorm:"primaryKey" json:"followerId"`
	FollowedID uint      `gorm:"primaryKey" json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}
