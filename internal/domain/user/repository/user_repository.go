package repository

import (
	"time"

	"blog_social/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	Count() (int64, error)
	Update(user *model.User) error
	UpdateRole(userID uint, role int) error
	UpdateLastSeen(userID uint, at time.Time) error
	CountApprovedPosts(userID uint) (int64, error)

	CreateFollow(f *model.Follow) error
	DeleteFollow(followerID, followedID uint) error
	HasFollow(followerID, followedID uint) (bool, error)
	GetFollowers(userID uint, offset, limit int) ([]model.User, int64, error)
	GetFollowing(userID uint, offset, limit int) ([]model.User, int64, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowing(userID uint) (int64, error)
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count 用户总数，注册时判断是否首个用户
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// Update 更新用户
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateRole(userID uint, role int) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

func (r *userRepository) UpdateLastSeen(userID uint, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_seen", at).Error
}

// CountApprovedPosts 用户已发布（已审核）的帖子数
func (r *userRepository) CountApprovedPosts(userID uint) (int64, error) {
	var count int64
	err := r.db.Table("posts").
		Where("author_id = ? AND status = ?", userID, "approved").
		Count(&count).Error
	return count, err
}

// --- Follow ---

func (r *userRepository) CreateFollow(f *model.Follow) error {
	return r.db.Create(f).Error
}

func (r *userRepository) DeleteFollow(followerID, followedID uint) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{}).Error
}

func (r *userRepository) HasFollow(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowers 关注 userID 的用户列表
func (r *userRepository) GetFollowers(userID uint, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	sub := r.db.Model(&model.Follow{}).Select("follower_id").Where("followed_id = ?", userID)

	query := r.db.Model(&model.User{}).Where("id IN (?)", sub)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("username asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetFollowing userID 关注的用户列表
func (r *userRepository) GetFollowing(userID uint, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	sub := r.db.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", userID)

	query := r.db.Model(&model.User{}).Where("id IN (?)", sub)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("username asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *userRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
