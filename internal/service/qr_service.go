package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"presensi/config"
	"presensi/internal/dto"
	"presensi/internal/repository"
)

var (
	ErrQRDataRequired = errors.New("QR data is required")
	ErrQRTokenInvalid = errors.New("QR code is invalid or expired")
)

// DefaultQRImageSize PNG 边长（像素）
const DefaultQRImageSize = 256

// QRPayload 令牌对应的班次快照
type QRPayload struct {
	ScheduleID       uint      `json:"schedule_id"`
	ScheduleName     string    `json:"schedule_name"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	ToleranceMinutes int       `json:"tolerance_minutes"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// QRService 考勤二维码业务接口
type QRService interface {
	// Generate 为班次签发新令牌
	Generate(ctx context.Context, scheduleID uint) (*dto.QRCodeResponse, error)
	// GeneratePNG 签发新令牌并渲染为 PNG
	GeneratePNG(ctx context.Context, scheduleID uint, size int) ([]byte, *dto.QRCodeResponse, error)
	// Validate 校验令牌存在且未过期，不消费
	Validate(ctx context.Context, token string) (*QRPayload, error)
	// Consume 消费令牌；返回 ErrQRTokenInvalid 表示已被他人用掉
	Consume(ctx context.Context, token string) (*QRPayload, error)
	// SingleUse 令牌是否一次性
	SingleUse() bool
}

type qrService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	store  QRTokenStore
	logger *zap.Logger
	now    func() time.Time
}

// NewQRService 创建 QRService 实例
func NewQRService(cfg *config.AttendanceConfig, repo *repository.Repository, store QRTokenStore, logger *zap.Logger) QRService {
	return &qrService{cfg: cfg, repo: repo, store: store, logger: logger, now: time.Now}
}

func (s *qrService) SingleUse() bool { return s.cfg.QRSingleUse }

func (s *qrService) Generate(ctx context.Context, scheduleID uint) (*dto.QRCodeResponse, error) {
	ws, err := s.repo.WorkSchedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkScheduleNotFound
		}
		s.logger.Error("查询班次失败", zap.Uint("work_schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	token, err := newQRToken(scheduleID, now)
	if err != nil {
		s.logger.Error("生成二维码令牌失败", zap.Error(err))
		return nil, err
	}

	ttl := s.cfg.QRTokenTTL
	schedule := toWorkScheduleResponse(ws)
	payload := QRPayload{
		ScheduleID:       ws.ID,
		ScheduleName:     ws.Name,
		StartTime:        schedule.StartTime,
		EndTime:          schedule.EndTime,
		ToleranceMinutes: ws.ToleranceMinutes,
		ExpiresAt:        now.Add(ttl),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, token, raw, ttl); err != nil {
		s.logger.Error("保存二维码令牌失败", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("签发二维码令牌", zap.Uint("work_schedule_id", ws.ID), zap.Duration("ttl", ttl))

	return &dto.QRCodeResponse{
		QRToken:   token,
		ExpiresIn: int(ttl.Seconds()),
		ExpiresAt: payload.ExpiresAt.Format(time.RFC3339),
		Schedule:  schedule,
	}, nil
}

func (s *qrService) GeneratePNG(ctx context.Context, scheduleID uint, size int) ([]byte, *dto.QRCodeResponse, error) {
	resp, err := s.Generate(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if size <= 0 || size > 1024 {
		size = DefaultQRImageSize
	}
	png, err := qrcode.Encode(resp.QRToken, qrcode.Medium, size)
	if err != nil {
		s.logger.Error("渲染二维码失败", zap.Error(err))
		return nil, nil, err
	}
	return png, resp, nil
}

func (s *qrService) Validate(ctx context.Context, token string) (*QRPayload, error) {
	return s.load(ctx, token, s.store.Get)
}

func (s *qrService) Consume(ctx context.Context, token string) (*QRPayload, error) {
	return s.load(ctx, token, s.store.Take)
}

func (s *qrService) load(ctx context.Context, token string, read func(context.Context, string) ([]byte, error)) (*QRPayload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrQRDataRequired
	}

	raw, err := read(ctx, token)
	if err != nil {
		if errors.Is(err, ErrQRTokenNotFound) {
			return nil, ErrQRTokenInvalid
		}
		s.logger.Error("读取二维码令牌失败", zap.Error(err))
		return nil, err
	}

	var payload QRPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Warn("二维码令牌载荷损坏", zap.Error(err))
		return nil, ErrQRTokenInvalid
	}
	if !s.now().Before(payload.ExpiresAt) {
		return nil, ErrQRTokenInvalid
	}
	return &payload, nil
}

// newQRToken sha256("{schedule_id}:{时间戳}:{32 字节随机数}") 的十六进制
func newQRToken(scheduleID uint, now time.Time) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	seed := fmt.Sprintf("%d:%s:%s", scheduleID, now.Format(time.RFC3339Nano),
		base64.RawURLEncoding.EncodeToString(nonce))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:]), nil
}
