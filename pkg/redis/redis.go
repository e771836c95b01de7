package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"presensi/config"
)

// ErrNotFound 键不存在或已过期
var ErrNotFound = errors.New("redis: key not found")

// Client Redis 客户端封装
// 用于 Token 黑名单、限流与考勤二维码令牌
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromClient 包装已有连接（测试或自定义连接池时使用）
func NewFromClient(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── Token 黑名单 ──

const blacklistPrefix = "presensi:token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流：窗口内请求数不超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()
	member := strconv.FormatInt(now, 10)

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: member})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// ── 考勤二维码令牌 ──

const qrTokenPrefix = "presensi:qr:"

// SetQRToken 保存二维码令牌载荷，过期后由 Redis 自动清除
func (c *Client) SetQRToken(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, qrTokenPrefix+token, payload, ttl).Err()
}

// GetQRToken 读取令牌载荷但不消费
func (c *Client) GetQRToken(ctx context.Context, token string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, qrTokenPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

// TakeQRToken 原子地读取并删除令牌（一次性使用）
func (c *Client) TakeQRToken(ctx context.Context, token string) ([]byte, error) {
	b, err := c.rdb.GetDel(ctx, qrTokenPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
