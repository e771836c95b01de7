package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BodyLimitMB  int64         `mapstructure:"body_limit_mb"`
	CORS         CORSConfig    `mapstructure:"cors"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AttendanceConfig 考勤规则配置
type AttendanceConfig struct {
	Timezone        string        `mapstructure:"timezone"`
	QRTokenTTL      time.Duration `mapstructure:"qr_token_ttl"`
	QRSingleUse     bool          `mapstructure:"qr_single_use"`
	ScanEarlyWindow time.Duration `mapstructure:"scan_early_window"` // 上班前多久开始允许扫码
	AbsentSweepCron string        `mapstructure:"absent_sweep_cron"`
	AbsentSweep     bool          `mapstructure:"absent_sweep_enabled"`
}

// Location 解析考勤时区，无效时回退到 UTC
func (c *AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RateLimitConfig 限流配置（窗口内最大请求数）
type RateLimitConfig struct {
	LoginLimit  int           `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
	ScanLimit   int           `mapstructure:"scan_limit"`
	ScanWindow  time.Duration `mapstructure:"scan_window"`
}

// Load 从 .env、配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PRESENSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.body_limit_mb", 8)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.cors.allow_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:58573",
		"http://127.0.0.1:58573",
	})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "presensi")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Jakarta")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("attendance.timezone", "Asia/Jakarta")
	v.SetDefault("attendance.qr_token_ttl", "60s")
	v.SetDefault("attendance.qr_single_use", true)
	v.SetDefault("attendance.scan_early_window", "60m")
	v.SetDefault("attendance.absent_sweep_cron", "55 23 * * *")
	v.SetDefault("attendance.absent_sweep_enabled", true)

	v.SetDefault("rate_limit.login_limit", 10)
	v.SetDefault("rate_limit.login_window", "1m")
	v.SetDefault("rate_limit.scan_limit", 20)
	v.SetDefault("rate_limit.scan_window", "1m")
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Attendance.QRTokenTTL <= 0 {
		return fmt.Errorf("配置校验失败: attendance.qr_token_ttl 必须大于 0")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: attendance.timezone 无效: %w", err)
	}
	return nil
}
