package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"presensi/config"
	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
	"presensi/internal/validation"
	"presensi/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrInvalidNIKPassword  = errors.New("Invalid NIK or password")
	ErrLoginFieldsRequired = errors.New("NIK and password are required")
	ErrAdminNotFound       = errors.New("Admin not found")
	ErrAdminExists         = errors.New("Admin with this email already exists")
)

// TokenBlacklist 已注销 Token 的存储（Redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	EmployeeLogin(ctx context.Context, req *dto.EmployeeLoginRequest) (*dto.EmployeeLoginResponse, error)
	// Logout 将 Token 加入黑名单直至其自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	AdminProfile(ctx context.Context, adminID uint) (*dto.AdminResponse, error)
	EmployeeProfile(ctx context.Context, employeeID uint) (*dto.EmployeeResponse, error)
	// CreateAdmin 初始化管理员账号（命令行使用）
	CreateAdmin(ctx context.Context, name, email, password string) (*dto.AdminResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 可为 nil
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	// 1. 查询管理员
	admin, err := s.repo.Admin.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	token, err := s.jwtMgr.GenerateAccessToken(admin.ID, jwt.RoleAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员登录", zap.Uint("admin_id", admin.ID))

	return &dto.AdminLoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Admin: dto.AdminResponse{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
		},
	}, nil
}

func (s *authService) EmployeeLogin(ctx context.Context, req *dto.EmployeeLoginRequest) (*dto.EmployeeLoginResponse, error) {
	nik := strings.TrimSpace(req.NIK)
	if nik == "" || req.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	employee, err := s.repo.Employee.GetByNIK(ctx, nik)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidNIKPassword
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidNIKPassword
	}

	token, err := s.jwtMgr.GenerateAccessToken(employee.ID, jwt.RoleEmployee)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.EmployeeLoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Employee:    toEmployeeResponse(employee),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) AdminProfile(ctx context.Context, adminID uint) (*dto.AdminResponse, error) {
	admin, err := s.repo.Admin.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Uint("admin_id", adminID), zap.Error(err))
		return nil, err
	}
	return &dto.AdminResponse{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}

func (s *authService) EmployeeProfile(ctx context.Context, employeeID uint) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *authService) CreateAdmin(ctx context.Context, name, email, password string) (*dto.AdminResponse, error) {
	email = strings.TrimSpace(email)
	if !validation.IsEmail(email) {
		return nil, validation.ErrInvalidEmail
	}
	if !validation.ValidPassword(password) {
		return nil, validation.ErrPasswordTooShort
	}

	if _, err := s.repo.Admin.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	admin := &model.Admin{Name: strings.TrimSpace(name), Email: email, PasswordHash: string(hash)}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminExists
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员已创建", zap.Uint("admin_id", admin.ID), zap.String("email", admin.Email))
	return &dto.AdminResponse{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}
