package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog_social/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Data 服务端会话内容，cookie 里只保存随机 token
type Data struct {
	UserID uint `json:"user_id"`
	Role   int  `json:"role"`
}

// Store Redis 会话存储
type Store struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewStore 创建会话存储
func NewStore(client *redis.Client) *Store {
	cfg := config.GlobalConfig.Session
	return &Store{
		client:     client,
		cookieName: cfg.CookieName,
		ttl:        time.Duration(cfg.TTL) * time.Hour,
		secure:     cfg.Secure,
	}
}

// Create 创建会话，返回随机 token
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	token := uuid.New().String()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal error: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store error: %w", err)
	}
	return token, nil
}

// Get 读取会话，顺带续期
func (s *Store) Get(ctx context.Context, token string) (*Data, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var data Data
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("session unmarshal error: %w", err)
	}

	// 滑动过期：每次访问刷新 TTL
	s.client.Expire(ctx, keyPrefix+token, s.ttl)

	return &data, nil
}

// Destroy 销毁会话
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

// CookieName 会话 cookie 名称
func (s *Store) CookieName() string {
	return s.cookieName
}

// CookieMaxAge cookie 有效期（秒）
func (s *Store) CookieMaxAge() int {
	return int(s.ttl / time.Second)
}

// CookieSecure 是否仅 HTTPS 下发 cookie
func (s *Store) CookieSecure() bool {
	return s.secure
}
