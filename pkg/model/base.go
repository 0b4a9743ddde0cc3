package model

import "time"

// BaseModel 基础模型，自增主键
// 业务上没有软删除需求，所以不带 gorm.DeletedAt
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
