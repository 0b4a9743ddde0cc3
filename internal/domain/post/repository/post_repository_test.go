package repository

import (
	"path/filepath"
	"testing"

	notifmodel "blog_social/internal/domain/notification/model"
	"blog_social/internal/domain/post/model"
	usermodel "blog_social/internal/domain/user/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试用独立的 sqlite 文件库，结束后随临时目录销毁
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
		&notifmodel.Notification{},
		&usermodel.Follow{},
	))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, slug, status string) *model.Post {
	t.Helper()

	post := &model.Post{
		Title:    "Post " + slug,
		Content:  "body",
		Slug:     slug,
		AuthorID: 1,
		Author:   "alice",
		Status:   status,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestDeletePostCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	post := seedPost(t, db, "hello-100", model.StatusApproved)
	other := seedPost(t, db, "other-100", model.StatusApproved)

	require.NoError(t, db.Create(&model.Comment{PostID: post.ID, UserID: 2, Username: "bob", Content: "nice"}).Error)
	require.NoError(t, db.Create(&model.Comment{PostID: other.ID, UserID: 2, Username: "bob", Content: "keep"}).Error)
	require.NoError(t, db.Create(&model.Reaction{PostID: post.ID, UserID: 2, Type: "like"}).Error)
	require.NoError(t, db.Create(&notifmodel.Notification{UserID: 1, SenderID: 2, PostID: post.ID, Type: "comment", Message: "m"}).Error)
	require.NoError(t, db.Create(&notifmodel.Notification{UserID: 1, SenderID: 2, PostID: 0, Type: "follow", Message: "m"}).Error)

	require.NoError(t, repo.DeletePost(post.ID))

	// 帖子本身和所有挂在它下面的行都应消失
	var posts, comments, reactions, notifs int64
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).Count(&posts).Error)
	require.NoError(t, db.Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&model.Reaction{}).Where("post_id = ?", post.ID).Count(&reactions).Error)
	require.NoError(t, db.Model(&notifmodel.Notification{}).Where("post_id = ?", post.ID).Count(&notifs).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)
	assert.Zero(t, notifs)

	// 其他帖子的数据不受影响，follow 通知也保留
	var otherComments, followNotifs int64
	require.NoError(t, db.Model(&model.Comment{}).Where("post_id = ?", other.ID).Count(&otherComments).Error)
	require.NoError(t, db.Model(&notifmodel.Notification{}).Where("type = ?", "follow").Count(&followNotifs).Error)
	assert.Equal(t, int64(1), otherComments)
	assert.Equal(t, int64(1), followNotifs)
}

func TestGetFeedOnlyApproved(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	seedPost(t, db, "approved-100", model.StatusApproved)
	seedPost(t, db, "pending-100", model.StatusPending)

	posts, total, err := repo.GetFeed(FeedQuery{Tab: "all", Offset: 0, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "approved-100", posts[0].Slug)
}

func TestGetFeedFollowingTab(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	followed := seedPost(t, db, "followed-100", model.StatusApproved)
	stranger := &model.Post{Title: "s", Slug: "stranger-100", AuthorID: 9, Status: model.StatusApproved}
	require.NoError(t, db.Create(stranger).Error)
	require.NoError(t, db.Create(&usermodel.Follow{FollowerID: 7, FollowedID: followed.AuthorID}).Error)

	posts, total, err := repo.GetFeed(FeedQuery{Tab: "following", ViewerID: 7, Offset: 0, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "followed-100", posts[0].Slug)
}
