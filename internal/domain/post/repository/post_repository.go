package repository

import (
	notifmodel "blog_social/internal/domain/notification/model"
	"blog_social/internal/domain/post/model"
	usermodel "blog_social/internal/domain/user/model"

	"gorm.io/gorm"
)

// FeedQuery 公开列表查询条件
type FeedQuery struct {
	Tab      string // all, video, following
	ViewerID uint   // following 标签页需要
	Offset   int
	Limit    int
}

// PostRepository 接口定义
type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id uint) (*model.Post, error)
	GetPostBySlug(slug string) (*model.Post, error)
	UpdatePost(post *model.Post) error
	UpdatePostStatus(id uint, status string) error
	// DeletePost 连同评论、表态、关联通知一起删除
	DeletePost(id uint) error
	GetFeed(q FeedQuery) ([]model.Post, int64, error)
	GetPending(offset, limit int) ([]model.Post, int64, error)
	Search(keyword string, offset, limit int) ([]model.Post, int64, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id uint) (*model.Comment, error)
	GetCommentsByPostID(postID uint, offset, limit int) ([]model.Comment, int64, error)
	DeleteComment(id uint) error
	CountComments(postID uint) (int64, error)

	GetReaction(userID, postID uint) (*model.Reaction, error)
	CreateReaction(reaction *model.Reaction) error
	UpdateReaction(reaction *model.Reaction) error
	DeleteReaction(id uint) error
	CountReactions(postID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建仓库实例
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// --- Post ---

func (r *postRepository) CreatePost(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetPostByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPostBySlug(slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) UpdatePost(post *model.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) UpdatePostStatus(id uint, status string) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Update("status", status).Error
}

// DeletePost 事务内级联删除，保证不留孤儿行
func (r *postRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&notifmodel.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}

// GetFeed 公开列表：只含已审核帖子，按创建时间倒序
func (r *postRepository) GetFeed(q FeedQuery) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Where("status = ?", model.StatusApproved)

	switch q.Tab {
	case "video":
		query = query.Where("media_kind = ?", model.MediaVideo)
	case "following":
		sub := r.db.Model(&usermodel.Follow{}).
			Select("followed_id").
			Where("follower_id = ?", q.ViewerID)
		query = query.Where("author_id IN (?)", sub)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(q.Offset).Limit(q.Limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPending 待审核队列（管理员）
func (r *postRepository) GetPending(offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Where("status = ?", model.StatusPending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Search 标题/正文模糊搜索，仅限已审核帖子
func (r *postRepository) Search(keyword string, offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	pattern := "%" + keyword + "%"
	query := r.db.Model(&model.Post{}).
		Where("status = ?", model.StatusApproved).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// --- Comment ---

func (r *postRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postRepository) GetCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) GetCommentsByPostID(postID uint, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *postRepository) DeleteComment(id uint) error {
	return r.db.Where("id = ?", id).Delete(&model.Comment{}).Error
}

func (r *postRepository) CountComments(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// --- Reaction ---

func (r *postRepository) GetReaction(userID, postID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	if err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *postRepository) CreateReaction(reaction *model.Reaction) error {
	return r.db.Create(reaction).Error
}

func (r *postRepository) UpdateReaction(reaction *model.Reaction) error {
	return r.db.Save(reaction).Error
}

func (r *postRepository) DeleteReaction(id uint) error {
	return r.db.Where("id = ?", id).Delete(&model.Reaction{}).Error
}

func (r *postRepository) CountReactions(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Reaction{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
