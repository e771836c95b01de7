package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"presensi/config"
	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/validation"
	"presensi/pkg/jwt"
)

// ── 测试桩 ──

type mockBlacklist struct {
	entries map[string]time.Duration
	err     error
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.entries[jti] = ttl
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: time.Hour,
		},
		Attendance: config.AttendanceConfig{
			Timezone:        "UTC",
			QRTokenTTL:      5 * time.Minute,
			QRSingleUse:     true,
			ScanEarlyWindow: time.Hour,
		},
	}
}

func setupTestAuthService() (AuthService, *mockDB, *mockBlacklist) {
	cfg := testConfig()
	db := newMockDB()
	bl := &mockBlacklist{entries: make(map[string]time.Duration)}
	svc := NewAuthService(cfg, newMockRepository(db), jwt.NewManager(&cfg.Auth), bl, zap.NewNop())
	return svc, db, bl
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	return string(hash)
}

func createTestAdmin(t *testing.T, db *mockDB, email, password string) *model.Admin {
	t.Helper()
	admin := &model.Admin{ID: 1, Name: "Admin Utama", Email: email, PasswordHash: hashPassword(t, password)}
	db.admins[admin.ID] = admin
	return admin
}

func createTestEmployee(t *testing.T, db *mockDB, nik, password string) *model.Employee {
	t.Helper()
	e := &model.Employee{
		ID:           db.id(),
		NIK:          nik,
		Name:         "Budi " + nik,
		Gender:       model.GenderMale,
		Position:     "Staff",
		Email:        nik + "@example.com",
		PasswordHash: hashPassword(t, password),
	}
	db.employees[e.ID] = e
	return e
}

// ── 管理员登录 ──

func TestAdminLogin_Success(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	createTestAdmin(t, db, "admin@example.com", "admin123")

	result, err := svc.AdminLogin(context.Background(), &dto.AdminLoginRequest{
		Email:    "ADMIN@example.com",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("AdminLogin 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.ExpiresIn != 3600 {
		t.Errorf("期望 ExpiresIn=3600，实际=%d", result.ExpiresIn)
	}
	if result.Admin.Email != "admin@example.com" {
		t.Errorf("期望 Email=admin@example.com，实际=%s", result.Admin.Email)
	}
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	createTestAdmin(t, db, "admin@example.com", "admin123")

	_, err := svc.AdminLogin(context.Background(), &dto.AdminLoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAdminLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.AdminLogin(context.Background(), &dto.AdminLoginRequest{
		Email:    "nobody@example.com",
		Password: "admin123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 员工登录 ──

func TestEmployeeLogin_Success(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	e := createTestEmployee(t, db, "3201000000000001", "secret1")

	result, err := svc.EmployeeLogin(context.Background(), &dto.EmployeeLoginRequest{
		NIK:      " 3201000000000001 ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("EmployeeLogin 应成功: %v", err)
	}
	if result.Employee.ID != e.ID {
		t.Errorf("期望 Employee.ID=%d，实际=%d", e.ID, result.Employee.ID)
	}

	claims, err := jwt.NewManager(&testConfig().Auth).ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("签发的 Token 应可解析: %v", err)
	}
	if claims.Role != jwt.RoleEmployee || claims.SubjectID != e.ID {
		t.Errorf("Token 声明不符: role=%s sub=%d", claims.Role, claims.SubjectID)
	}
}

func TestEmployeeLogin_MissingFields(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	cases := []dto.EmployeeLoginRequest{
		{NIK: "", Password: "secret1"},
		{NIK: "123", Password: ""},
		{NIK: "   ", Password: "secret1"},
	}
	for _, req := range cases {
		req := req
		if _, err := svc.EmployeeLogin(context.Background(), &req); !errors.Is(err, ErrLoginFieldsRequired) {
			t.Errorf("NIK=%q 期望 ErrLoginFieldsRequired，实际: %v", req.NIK, err)
		}
	}
}

func TestEmployeeLogin_WrongPassword(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	createTestEmployee(t, db, "3201000000000001", "secret1")

	_, err := svc.EmployeeLogin(context.Background(), &dto.EmployeeLoginRequest{
		NIK:      "3201000000000001",
		Password: "secret2",
	})
	if !errors.Is(err, ErrInvalidNIKPassword) {
		t.Errorf("期望 ErrInvalidNIKPassword，实际: %v", err)
	}
}

// ── 登出 ──

func TestLogout_BlacklistsToken(t *testing.T) {
	svc, _, bl := setupTestAuthService()

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(30*time.Minute)); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	ttl, ok := bl.entries["jti-1"]
	if !ok {
		t.Fatal("jti 应写入黑名单")
	}
	if ttl <= 29*time.Minute || ttl > 30*time.Minute {
		t.Errorf("黑名单 TTL 应约为 30m，实际=%v", ttl)
	}
}

func TestLogout_NoBlacklist(t *testing.T) {
	cfg := testConfig()
	svc := NewAuthService(cfg, newMockRepository(newMockDB()), jwt.NewManager(&cfg.Auth), nil, zap.NewNop())

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Errorf("无黑名单时 Logout 应静默成功，实际: %v", err)
	}
}

func TestLogout_BlacklistError(t *testing.T) {
	svc, _, bl := setupTestAuthService()
	bl.err = errors.New("redis down")

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Minute)); err == nil {
		t.Error("黑名单写入失败时应返回错误")
	}
}

// ── 个人资料 ──

func TestAdminProfile_NotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.AdminProfile(context.Background(), 42); !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("期望 ErrAdminNotFound，实际: %v", err)
	}
}

func TestEmployeeProfile_Success(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	e := createTestEmployee(t, db, "3201000000000001", "secret1")

	profile, err := svc.EmployeeProfile(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("EmployeeProfile 应成功: %v", err)
	}
	if profile.NIK != e.NIK {
		t.Errorf("期望 NIK=%s，实际=%s", e.NIK, profile.NIK)
	}
}

// ── 创建管理员 ──

func TestCreateAdmin(t *testing.T) {
	svc, db, _ := setupTestAuthService()
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, " Admin Utama ", "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("CreateAdmin 应成功: %v", err)
	}
	if admin.Name != "Admin Utama" {
		t.Errorf("姓名应去除首尾空格，实际=%q", admin.Name)
	}
	stored := db.admins[admin.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("admin123")) != nil {
		t.Error("存储的密码应为 bcrypt 哈希")
	}

	if _, err := svc.CreateAdmin(ctx, "Other", "admin@example.com", "admin123"); !errors.Is(err, ErrAdminExists) {
		t.Errorf("重复邮箱期望 ErrAdminExists，实际: %v", err)
	}
	if _, err := svc.CreateAdmin(ctx, "Other", "not-an-email", "admin123"); !errors.Is(err, validation.ErrInvalidEmail) {
		t.Errorf("非法邮箱期望 ErrInvalidEmail，实际: %v", err)
	}
	if _, err := svc.CreateAdmin(ctx, "Other", "other@example.com", "123"); !errors.Is(err, validation.ErrPasswordTooShort) {
		t.Errorf("短密码期望 ErrPasswordTooShort，实际: %v", err)
	}
}
