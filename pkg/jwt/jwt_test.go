package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"presensi/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(7, RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.SubjectID != 7 {
		t.Errorf("期望 SubjectID=7，实际=%d", claims.SubjectID)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("期望 Role=admin，实际=%s", claims.Role)
	}
	if claims.Issuer != "presensi" {
		t.Errorf("期望 Issuer=presensi，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 59*time.Minute || ttl > 61*time.Minute {
		t.Errorf("AccessToken TTL 期望约1h，实际=%v", ttl)
	}
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026"})
	if m.AccessTokenTTL() != time.Hour {
		t.Errorf("未配置 TTL 时期望 1h，实际=%v", m.AccessTokenTTL())
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("invalid.token.string"); err == nil {
		t.Error("期望解析无效 token 返回错误")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret-key",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _ := m1.GenerateAccessToken(1, RoleEmployee)
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("不同密钥签名的 token 不应通过验证")
	}
}

func TestParseToken_UnknownRole(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		SubjectID: 1,
		Role:      "root",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "presensi",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("未知角色期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 1 * time.Millisecond,
	})

	token, _ := m.GenerateAccessToken(1, RoleAdmin)
	time.Sleep(1100 * time.Millisecond)

	_, err := m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}
