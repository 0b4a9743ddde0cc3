package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	notifmodel "blog_social/internal/domain/notification/model"
	notifservice "blog_social/internal/domain/notification/service"
	"blog_social/internal/domain/post/model"
	"blog_social/internal/domain/post/repository"
	userrepo "blog_social/internal/domain/user/repository"
	"blog_social/pkg/cache"
	"blog_social/pkg/logger"
	"blog_social/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 业务错误
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotApproved      = errors.New("post is not approved")
	ErrAlreadyModerated = errors.New("post has already been moderated")
)

// 表态状态，ToggleReaction 的返回值
const (
	ReactionAdded    = "added"
	ReactionRemoved  = "removed"
	ReactionReplaced = "replaced"
)

const (
	feedCacheKeyPrefix = "feed:"
	feedCacheTTL       = time.Minute
)

// PostDetail 帖子详情（含统计）
type PostDetail struct {
	Post          *model.Post `json:"post"`
	CommentCount  int64       `json:"commentCount"`
	ReactionCount int64       `json:"reactionCount"`
}

// PostService 帖子服务接口
type PostService interface {
	CreatePost(authorID uint, title, content, tags, mediaURL, mediaKind string) (*model.Post, error)
	UpdatePost(actorID uint, actorIsAdmin bool, postID uint, title, content, tags string) (*model.Post, error)
	DeletePost(actorID uint, actorIsAdmin bool, postID uint) error
	ApprovePost(postID uint) error
	// RejectPost 拒绝即删除
	RejectPost(postID uint) error
	GetFeed(tab string, viewerID uint, page, limit int) ([]model.Post, int64, error)
	GetPending(page, limit int) ([]model.Post, int64, error)
	// GetPostBySlug 待审核帖子只有作者和管理员可见
	GetPostBySlug(slug string, viewerID uint, viewerIsAdmin bool) (*PostDetail, error)
	Search(keyword string, page, limit int) ([]model.Post, int64, error)

	AddComment(userID, postID uint, content string) (*model.Comment, error)
	DeleteComment(userID, commentID uint) error
	GetComments(postID uint, page, limit int) ([]model.Comment, int64, error)

	// ToggleReaction 同类型再点取消，不同类型替换
	ToggleReaction(userID, postID uint, reactionType string) (string, error)
}

type postService struct {
	repo     repository.PostRepository
	users    userrepo.UserRepository
	notifier notifservice.Notifier
	cache    cache.CacheService
}

// NewPostService 创建帖子服务
func NewPostService(repo repository.PostRepository, users userrepo.UserRepository, notifier notifservice.Notifier, cache cache.CacheService) PostService {
	return &postService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		cache:    cache,
	}
}

// CreatePost 创建帖子
// 管理员发帖直接通过审核，普通用户进入待审核队列
func (s *postService) CreatePost(authorID uint, title, content, tags, mediaURL, mediaKind string) (*model.Post, error) {
	author, err := s.users.GetByID(authorID)
	if err != nil {
		return nil, err
	}

	status := model.StatusPending
	if author.IsAdmin() {
		status = model.StatusApproved
	}

	post := &model.Post{
		Title:     title,
		Content:   content,
		Slug:      utils.MakeUniqueSlug(title, time.Now()),
		AuthorID:  author.ID,
		Author:    author.Username,
		Status:    status,
		Tags:      tags,
		MediaURL:  mediaURL,
		MediaKind: mediaKind,
	}

	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}

	if status == model.StatusApproved {
		s.invalidateFeedCache()
	}
	return post, nil
}

// UpdatePost 仅作者或管理员可编辑；标题变化时重新生成 slug
func (s *postService) UpdatePost(actorID uint, actorIsAdmin bool, postID uint, title, content, tags string) (*model.Post, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.AuthorID != actorID && !actorIsAdmin {
		return nil, ErrPermissionDenied
	}

	if title != post.Title {
		post.Slug = utils.MakeUniqueSlug(title, time.Now())
	}
	post.Title = title
	post.Content = content
	post.Tags = tags

	if err := s.repo.UpdatePost(post); err != nil {
		return nil, err
	}

	s.invalidateFeedCache()
	return post, nil
}

// DeletePost 仅作者或管理员可删除，级联清理评论和表态
func (s *postService) DeletePost(actorID uint, actorIsAdmin bool, postID uint) error {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.AuthorID != actorID && !actorIsAdmin {
		return ErrPermissionDenied
	}

	if err := s.repo.DeletePost(postID); err != nil {
		return err
	}

	s.invalidateFeedCache()
	return nil
}

// ApprovePost 审核通过（pending -> approved，终态不可再变）
func (s *postService) ApprovePost(postID uint) error {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.Status != model.StatusPending {
		return ErrAlreadyModerated
	}

	if err := s.repo.UpdatePostStatus(postID, model.StatusApproved); err != nil {
		return err
	}

	s.invalidateFeedCache()
	return nil
}

// RejectPost 审核拒绝，直接删除帖子
func (s *postService) RejectPost(postID uint) error {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.Status != model.StatusPending {
		return ErrAlreadyModerated
	}

	return s.repo.DeletePost(postID)
}

// GetFeed 公开列表
// all/video 标签页与访问者无关，结果短暂缓存；following 因人而异不缓存
func (s *postService) GetFeed(tab string, viewerID uint, page, limit int) ([]model.Post, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	cacheable := tab == "" || tab == "all" || tab == "video"

	type feedPage struct {
		Posts []model.Post `json:"posts"`
		Total int64        `json:"total"`
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%s:%d:%d", feedCacheKeyPrefix, tab, page, limit)

	if cacheable {
		var cached feedPage
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Posts, cached.Total, nil
		}
	}

	posts, total, err := s.repo.GetFeed(repository.FeedQuery{
		Tab:      tab,
		ViewerID: viewerID,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, feedPage{Posts: posts, Total: total}, feedCacheTTL); err != nil {
			logger.Log.Warn("failed to cache feed page", zap.Error(err))
		}
	}

	return posts, total, nil
}

func (s *postService) GetPending(page, limit int) ([]model.Post, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetPending((page-1)*limit, limit)
}

func (s *postService) GetPostBySlug(slug string, viewerID uint, viewerIsAdmin bool) (*PostDetail, error) {
	post, err := s.repo.GetPostBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// 未审核通过的帖子对外不存在，避免泄露 slug 即可读
	if post.Status != model.StatusApproved && post.AuthorID != viewerID && !viewerIsAdmin {
		return nil, ErrPostNotFound
	}

	commentCount, err := s.repo.CountComments(post.ID)
	if err != nil {
		return nil, err
	}
	reactionCount, err := s.repo.CountReactions(post.ID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:          post,
		CommentCount:  commentCount,
		ReactionCount: reactionCount,
	}, nil
}

func (s *postService) Search(keyword string, page, limit int) ([]model.Post, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if keyword == "" {
		return []model.Post{}, 0, nil
	}
	return s.repo.Search(keyword, (page-1)*limit, limit)
}

// AddComment 评论已审核帖子，必要时通知帖子作者
func (s *postService) AddComment(userID, postID uint, content string) (*model.Comment, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Status != model.StatusApproved {
		return nil, ErrNotApproved
	}

	commenter, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		Username: commenter.Username,
		Content:  content,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(post.AuthorID, userID, postID, notifmodel.TypeComment,
		fmt.Sprintf("%s commented on your post %q", commenter.Username, post.Title)); err != nil {
		logger.Log.Warn("failed to create comment notification", zap.Uint("postID", postID), zap.Error(err))
	}

	return comment, nil
}

// DeleteComment 仅评论作者可删除自己的评论
func (s *postService) DeleteComment(userID, commentID uint) error {
	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != userID {
		return ErrPermissionDenied
	}

	return s.repo.DeleteComment(commentID)
}

func (s *postService) GetComments(postID uint, page, limit int) ([]model.Comment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetCommentsByPostID(postID, (page-1)*limit, limit)
}

// ToggleReaction 表态开关
// 同类型重复提交取消表态，不同类型覆盖旧表态，新表态通知作者
func (s *postService) ToggleReaction(userID, postID uint, reactionType string) (string, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPostNotFound
		}
		return "", err
	}
	if post.Status != model.StatusApproved {
		return "", ErrNotApproved
	}

	existing, err := s.repo.GetReaction(userID, postID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if existing != nil {
		if existing.Type == reactionType {
			// 同类型再点一次 = 取消
			return ReactionRemoved, s.repo.DeleteReaction(existing.ID)
		}
		existing.Type = reactionType
		return ReactionReplaced, s.repo.UpdateReaction(existing)
	}

	reaction := &model.Reaction{
		UserID: userID,
		PostID: postID,
		Type:   reactionType,
	}
	if err := s.repo.CreateReaction(reaction); err != nil {
		return "", err
	}

	actor, err := s.users.GetByID(userID)
	if err == nil {
		if err := s.notifier.Notify(post.AuthorID, userID, postID, notifmodel.TypeLike,
			fmt.Sprintf("%s reacted to your post %q", actor.Username, post.Title)); err != nil {
			logger.Log.Warn("failed to create reaction notification", zap.Uint("postID", postID), zap.Error(err))
		}
	}

	return ReactionAdded, nil
}

func (s *postService) invalidateFeedCache() {
	if err := s.cache.InvalidatePattern(context.Background(), feedCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}
