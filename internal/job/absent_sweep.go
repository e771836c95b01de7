// Package job 后台定时任务
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"presensi/config"
)

// AbsentSweeper 缺勤扫描所需的最小接口（由 AttendanceService 实现）
type AbsentSweeper interface {
	SweepAbsent(ctx context.Context) (int64, error)
}

// Scheduler 定时任务调度器
type Scheduler struct {
	cron    *cron.Cron
	sweeper AbsentSweeper
	spec    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler 创建调度器，任务按考勤时区触发；上一次未结束时跳过本次
func NewScheduler(cfg *config.AttendanceConfig, sweeper AbsentSweeper, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: sweeper,
		spec:    cfg.AbsentSweepCron,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// Start 注册任务并启动
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runAbsentSweep); err != nil {
		return fmt.Errorf("注册缺勤扫描任务失败: %w", err)
	}
	s.cron.Start()
	s.logger.Info("定时任务已启动", zap.String("absent_sweep", s.spec))
	return nil
}

// Stop 停止调度并等待运行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("等待定时任务结束超时")
	}
}

func (s *Scheduler) runAbsentSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.sweeper.SweepAbsent(ctx); err != nil {
		s.logger.Error("缺勤扫描失败", zap.Error(err))
	}
}

// cronLogger 将 cron 日志接入 zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
