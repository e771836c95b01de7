package service

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"presensi/pkg/redis"
)

// ErrQRTokenNotFound 令牌不存在、已过期或已被使用
var ErrQRTokenNotFound = errors.New("qr token not found")

// QRTokenStore 二维码令牌存储
type QRTokenStore interface {
	Save(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	// Get 读取但不消费
	Get(ctx context.Context, token string) ([]byte, error)
	// Take 原子地读取并删除，保证同一令牌只能成功消费一次
	Take(ctx context.Context, token string) ([]byte, error)
}

// ── Redis 实现 ──

type redisQRStore struct {
	rdb *redis.Client
}

// NewRedisQRStore 基于 Redis 的令牌存储（SET EX + GETDEL）
func NewRedisQRStore(rdb *redis.Client) QRTokenStore {
	return &redisQRStore{rdb: rdb}
}

func (s *redisQRStore) Save(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	return s.rdb.SetQRToken(ctx, token, payload, ttl)
}

func (s *redisQRStore) Get(ctx context.Context, token string) ([]byte, error) {
	b, err := s.rdb.GetQRToken(ctx, token)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrQRTokenNotFound
	}
	return b, err
}

func (s *redisQRStore) Take(ctx context.Context, token string) ([]byte, error) {
	b, err := s.rdb.TakeQRToken(ctx, token)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrQRTokenNotFound
	}
	return b, err
}

// ── 进程内存实现（Redis 不可用时降级，仅适用于单实例） ──

type memoryQRStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryQRStore 创建进程内令牌存储；每次 Save 时顺带清理过期令牌
func NewMemoryQRStore() QRTokenStore {
	return &memoryQRStore{
		cache: ttlcache.New[string, []byte](
			// 读取不得延长令牌有效期
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
	}
}

func (s *memoryQRStore) Save(_ context.Context, token string, payload []byte, ttl time.Duration) error {
	s.cache.DeleteExpired()
	s.cache.Set(token, payload, ttl)
	return nil
}

func (s *memoryQRStore) Get(_ context.Context, token string) ([]byte, error) {
	item := s.cache.Get(token)
	if item == nil || item.IsExpired() {
		return nil, ErrQRTokenNotFound
	}
	return item.Value(), nil
}

func (s *memoryQRStore) Take(_ context.Context, token string) ([]byte, error) {
	item, ok := s.cache.GetAndDelete(token)
	if !ok || item.IsExpired() {
		return nil, ErrQRTokenNotFound
	}
	return item.Value(), nil
}
