package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"presensi/config"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepAbsent(_ context.Context) (int64, error) {
	s.calls.Add(1)
	return 3, s.err
}

func testAttendanceConfig(spec string) *config.AttendanceConfig {
	return &config.AttendanceConfig{Timezone: "Asia/Jakarta", AbsentSweepCron: spec}
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(testAttendanceConfig("not a cron"), &countingSweeper{}, zap.NewNop())
	if err := s.Start(); err == nil {
		t.Error("非法 cron 表达式应返回错误")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(testAttendanceConfig("55 23 * * *"), &countingSweeper{}, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("期望注册 1 个任务，实际 %d", len(s.cron.Entries()))
	}
	s.Stop(context.Background())
}

func TestScheduler_RunAbsentSweepSwallowsError(t *testing.T) {
	sw := &countingSweeper{err: errors.New("db down")}
	s := NewScheduler(testAttendanceConfig("55 23 * * *"), sw, zap.NewNop())

	s.runAbsentSweep()
	if sw.calls.Load() != 1 {
		t.Errorf("期望调用 1 次，实际 %d", sw.calls.Load())
	}
}
