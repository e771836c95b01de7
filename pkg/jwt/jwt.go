package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"presensi/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// 角色
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const issuer = "presensi"

// Claims 自定义 JWT 声明
type Claims struct {
	SubjectID uint   `json:"sub_id"` // admins.id 或 employees.id，由 Role 区分
	Role      string `json:"role"`
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret         []byte
	accessTokenTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		accessTokenTTL: ttl,
	}
}

// AccessTokenTTL Access Token 有效期
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTokenTTL
}

// GenerateAccessToken 生成 Access Token（无 refresh 流程）
func (m *Manager) GenerateAccessToken(subjectID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		SubjectID: subjectID,
		Role:      role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Role != RoleAdmin && claims.Role != RoleEmployee {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
