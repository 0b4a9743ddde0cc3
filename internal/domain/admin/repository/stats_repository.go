package repository

import (
	"github.com/jmoiron/sqlx"
)

// Stats 管理后台总览数据
type Stats struct {
	Users         int64 `db:"users" json:"users"`
	ApprovedPosts int64 `db:"approved_posts" json:"approvedPosts"`
	PendingPosts  int64 `db:"pending_posts" json:"pendingPosts"`
	Comments      int64 `db:"comments" json:"comments"`
	Reactions     int64 `db:"reactions" json:"reactions"`
	Follows       int64 `db:"follows" json:"follows"`
	Messages      int64 `db:"messages" json:"messages"`
	UnreadNotifs  int64 `db:"unread_notifs" json:"unreadNotifications"`
}

// TopPost 表态数最多的帖子
type TopPost struct {
	ID        uint   `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Slug      string `db:"slug" json:"slug"`
	Reactions int64  `db:"reactions" json:"reactions"`
}

// StatsRepository 聚合统计查询
// 报表类查询用 sqlx 直接写 SQL，绕开 ORM
type StatsRepository interface {
	GetStats() (*Stats, error)
	GetTopPosts(limit int) ([]TopPost, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetStats() (*Stats, error) {
	var stats Stats
	err := r.db.Get(&stats, `
		SELECT
			(SELECT COUNT(*) FROM users)                                   AS users,
			(SELECT COUNT(*) FROM posts WHERE status = 'approved')         AS approved_posts,
			(SELECT COUNT(*) FROM posts WHERE status = 'pending')          AS pending_posts,
			(SELECT COUNT(*) FROM comments)                                AS comments,
			(SELECT COUNT(*) FROM reactions)                               AS reactions,
			(SELECT COUNT(*) FROM follows)                                 AS follows,
			(SELECT COUNT(*) FROM messages)                                AS messages,
			(SELECT COUNT(*) FROM notifications WHERE is_read = FALSE)     AS unread_notifs`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepository) GetTopPosts(limit int) ([]TopPost, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []TopPost
	query := r.db.Rebind(`
		SELECT p.id, p.title, p.slug, COUNT(r.id) AS reactions
		FROM posts p
		LEFT JOIN reactions r ON r.post_id = p.id
		WHERE p.status = 'approved'
		GROUP BY p.id, p.title, p.slug
		ORDER BY reactions DESC, p.id ASC
		LIMIT ?`)
	if err := r.db.Select(&posts, query, limit); err != nil {
		return nil, err
	}
	return posts, nil
}
