// createadmin 初始化管理员账号
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"presensi/config"
	"presensi/internal/repository"
	"presensi/internal/service"
	"presensi/pkg/database"
	"presensi/pkg/jwt"
	applogger "presensi/pkg/logger"
)

type createAdminOptions struct {
	ConfigPath string
	Email      string
	Password   string
	Name       string
}

func newRootCmd() *cobra.Command {
	var opts createAdminOptions

	cmd := &cobra.Command{
		Use:           "createadmin",
		Short:         "Create an admin account for the attendance dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file path (default ./config/config.yaml)")
	cmd.Flags().StringVar(&opts.Email, "email", "admin@example.com", "admin email")
	cmd.Flags().StringVar(&opts.Password, "password", "admin123", "admin password")
	cmd.Flags().StringVar(&opts.Name, "name", "Admin Utama", "admin display name")

	return cmd
}

func runCreateAdmin(ctx context.Context, opts createAdminOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	authSvc := service.NewAuthService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Auth), nil, logger)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	admin, err := authSvc.CreateAdmin(ctx, opts.Name, opts.Email, opts.Password)
	if errors.Is(err, service.ErrAdminExists) {
		logger.Warn("管理员已存在，跳过创建", zap.String("email", opts.Email))
		return fmt.Errorf("admin %s already exists", opts.Email)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Admin created: id=%d email=%s name=%s\n", admin.ID, admin.Email, admin.Name)
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
