package service

import (
	"errors"
	"fmt"
	"time"

	"blog_social/internal/domain/notification/model"
	notifservice "blog_social/internal/domain/notification/service"
	usermodel "blog_social/internal/domain/user/model"
	"blog_social/internal/domain/user/repository"
	"blog_social/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 业务错误
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrUserNotFound       = errors.New("user not found")
)

// Profile 用户主页数据
type Profile struct {
	User           *usermodel.User `json:"user"`
	PostCount      int64           `json:"postCount"`
	FollowerCount  int64           `json:"followerCount"`
	FollowingCount int64           `json:"followingCount"`
}

// UserService 用户服务接口
type UserService interface {
	Register(username, password string) (*usermodel.User, error)
	Login(username, password string) (*usermodel.User, error)
	GetProfile(id uint) (*Profile, error)
	UpdateProfile(id uint, bio *string, avatarURL, backgroundURL string) (*usermodel.User, error)
	ToggleFollow(followerID, followedID uint) (bool, error)
	GetFollowers(userID uint, page, limit int) ([]usermodel.User, int64, error)
	GetFollowing(userID uint, page, limit int) ([]usermodel.User, int64, error)
	PromoteToAdmin(username string) error
}

// userService 实现
type userService struct {
	repo     repository.UserRepository
	notifier notifservice.Notifier
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, notifier notifservice.Notifier) UserService {
	return &userService{repo: repo, notifier: notifier}
}

// Register 注册
// 首个注册用户成为管理员
func (s *userService) Register(username, password string) (*usermodel.User, error) {
	if _, err := s.repo.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := usermodel.RoleUser
	count, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = usermodel.RoleAdmin
	}

	user := &usermodel.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验密码并刷新 last_seen
func (s *userService) Login(username, password string) (*usermodel.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastSeen(user.ID, now); err != nil {
		return nil, err
	}
	user.LastSeen = &now

	return user, nil
}

// GetProfile 用户主页：资料 + 统计
func (s *userService) GetProfile(id uint) (*Profile, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	postCount, err := s.repo.CountApprovedPosts(id)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.repo.CountFollowers(id)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.repo.CountFollowing(id)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:           user,
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}, nil
}

// UpdateProfile 更新个人资料。bio 为 nil 表示不变，传空串可清空；
// 空的 URL 表示不变
func (s *userService) UpdateProfile(id uint, bio *string, avatarURL, backgroundURL string) (*usermodel.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if bio != nil {
		user.Bio = *bio
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if backgroundURL != "" {
		user.BackgroundURL = backgroundURL
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleFollow 关注/取关，返回 true 表示本次建立了关注
func (s *userService) ToggleFollow(followerID, followedID uint) (bool, error) {
	if followerID == followedID {
		return false, ErrSelfFollow
	}

	follower, err := s.repo.GetByID(followerID)
	if err != nil {
		return false, err
	}
	if _, err := s.repo.GetByID(followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	exists, err := s.repo.HasFollow(followerID, followedID)
	if err != nil {
		return false, err
	}

	if exists {
		return false, s.repo.DeleteFollow(followerID, followedID)
	}

	if err := s.repo.CreateFollow(&usermodel.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}); err != nil {
		return false, err
	}

	// 通知失败不影响关注结果
	if s.notifier != nil {
		if err := s.notifier.Notify(followedID, followerID, 0, model.TypeFollow,
			fmt.Sprintf("%s started following you", follower.Username)); err != nil {
			logger.Log.Warn("发送关注通知失败", zap.Error(err))
		}
	}
	return true, nil
}

func (s *userService) GetFollowers(userID uint, page, limit int) ([]usermodel.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetFollowers(userID, (page-1)*limit, limit)
}

func (s *userService) GetFollowing(userID uint, page, limit int) ([]usermodel.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetFollowing(userID, (page-1)*limit, limit)
}

// PromoteToAdmin 提升为管理员，幂等，cmd/provision 使用
func (s *userService) PromoteToAdmin(username string) error {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsAdmin() {
		return nil
	}
	return s.repo.UpdateRole(user.ID, usermodel.RoleAdmin)
}
