package service

import (

	"go.uber.org/zap"

	"presensi/config"
	"presensi/internal/repository"
	"presensi/pkg/jwt"
	"presensi/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth             AuthService
	Employee         EmployeeService
	EmployeeSchedule EmployeeScheduleService
	WorkSchedule     WorkScheduleService
	QR               QRService
	Attendance       AttendanceService
	Export           ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时（Redis 不可用）二维码令牌改存进程内存，登出不写黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		store     QRTokenStore
		blacklist TokenBlacklist
	)
	if rdb != nil {
		store = NewRedisQRStore(rdb)
		blacklist = rdb
	} else {
		logger.Warn("Redis 不可用，二维码令牌使用进程内存存储")
		store = NewMemoryQRStore()
	}

	qr := NewQRService(&cfg.Attendance, repo, store, logger)

	return &Service{
		Auth:             NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Employee:         NewEmployeeService(repo, logger),
		EmployeeSchedule: NewEmployeeScheduleService(repo, logger),
		WorkSchedule:     NewWorkScheduleService(repo, logger),
		QR:               qr,
		Attendance:       NewAttendanceService(&cfg.Attendance, repo, qr, logger),
		Export:           NewExportService(&cfg.Attendance, repo, logger),
	}
}
