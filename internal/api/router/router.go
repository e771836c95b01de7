package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"presensi/config"
	"presensi/internal/api/handler"
	"presensi/internal/api/middleware"
	"presensi/internal/dto"
	"presensi/internal/validation"
	"presensi/pkg/jwt"
	"presensi/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if err := validation.RegisterGin(dto.CreateWorkScheduleRequest{}, dto.UpdateWorkScheduleRequest{}); err != nil {
		logger.Fatal("注册校验规则失败", zap.Error(err))
	}

	// 直接传入 nil *redis.Client 会得到非 nil 接口
	var (
		blacklist middleware.BlacklistChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))

	// ── 健康检查 ──
	r.GET("/health", healthHandler(db, rdb))

	rl := cfg.RateLimit
	api := r.Group("/api")

	// ── 管理端 ──
	admin := api.Group("/admin")
	{
		admin.POST("/login", middleware.RateLimit(limiter, rl.LoginLimit, rl.LoginWindow), h.Auth.AdminLogin)

		authorized := admin.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist), middleware.RoleAuth(jwt.RoleAdmin))
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.GET("/me", h.Auth.AdminMe)

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/search", h.Employee.Search)
				employees.POST("", h.Employee.Create)
				employees.POST("/import", h.Employee.Import)
				employees.GET("/available-schedules/:id", h.Employee.AvailableSchedules)
				employees.GET("/:id", h.Employee.Get)
				employees.PUT("/:id", h.Employee.Update)
				employees.PATCH("/:id", h.Employee.Patch)
				employees.DELETE("/:id", h.Employee.Delete)

				employees.GET("/:id/schedules", h.Employee.Schedules)
				employees.POST("/:id/schedules", h.Employee.AssignSchedule)
				employees.PUT("/:id/schedules/:scheduleId", h.Employee.UpdateSchedule)
				employees.DELETE("/:id/schedules/:scheduleId", h.Employee.RemoveSchedule)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("", h.Attendance.List)
				attendance.GET("/export", h.Export.ExportAttendance)
			}

			// 班次模块；/work-schedulesOP 为 Web 端使用的路径
			for _, prefix := range []string{"/work-schedules", "/work-schedulesOP"} {
				ws := authorized.Group(prefix)
				ws.GET("", h.WorkSchedule.List)
				ws.POST("", h.WorkSchedule.Create)
				ws.GET("/:id", h.WorkSchedule.Get)
				ws.PUT("/:id", h.WorkSchedule.Update)
				ws.DELETE("/:id", h.WorkSchedule.Delete)
				ws.POST("/:id/qr", h.WorkSchedule.QRCode)
			}
		}
	}

	// ── 员工端 ──
	employee := api.Group("/employee")
	{
		employee.POST("/login", middleware.RateLimit(limiter, rl.LoginLimit, rl.LoginWindow), h.Auth.EmployeeLogin)

		authorized := employee.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist), middleware.RoleAuth(jwt.RoleEmployee))
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.GET("/me", h.Auth.EmployeeMe)
			authorized.GET("/schedule", h.Employee.MySchedule)

			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/today", h.Attendance.Today)
				attendance.GET("/history", h.Attendance.History)
				attendance.POST("/scan", middleware.RateLimit(limiter, rl.ScanLimit, rl.ScanWindow), h.Attendance.Scan)
				attendance.POST("/check-out", h.Attendance.CheckOut)
			}
		}
	}

	return r
}

// healthHandler 检查数据库与 Redis；Redis 不可用只标记为 degraded
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "up", "redis": "up"}
		code := http.StatusOK

		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status["status"] = "error"
				status["database"] = "down"
				code = http.StatusServiceUnavailable
			}
		}

		if rdb == nil {
			status["redis"] = "disabled"
		} else if err := rdb.Ping(ctx); err != nil {
			status["redis"] = "down"
			if code == http.StatusOK {
				status["status"] = "degraded"
			}
		}

		c.JSON(code, status)
	}
}
