package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/validation"
)

func setupTestWorkScheduleService() (WorkScheduleService, *mockDB) {
	db := newMockDB()
	return NewWorkScheduleService(newMockRepository(db), zap.NewNop()), db
}

func TestWorkScheduleCreate(t *testing.T) {
	svc, _ := setupTestWorkScheduleService()

	resp, err := svc.Create(context.Background(), &dto.CreateWorkScheduleRequest{
		Name:             " Shift Pagi ",
		StartTime:        "08:00",
		EndTime:          "16:00",
		ToleranceMinutes: 15,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "Shift Pagi" || resp.Version != 1 {
		t.Errorf("返回内容不符: %+v", resp)
	}
}

func TestWorkScheduleCreate_InvalidRange(t *testing.T) {
	svc, _ := setupTestWorkScheduleService()

	cases := []struct{ start, end string }{
		{"16:00", "08:00"},
		{"08:00", "08:00"},
		{"8am", "16:00"},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), &dto.CreateWorkScheduleRequest{Name: "X", StartTime: c.start, EndTime: c.end})
		if !errors.Is(err, validation.ErrInvalidTimeRange) {
			t.Errorf("%s-%s 期望 ErrInvalidTimeRange，实际: %v", c.start, c.end, err)
		}
	}
}

func TestWorkScheduleGetByID_EmployeeCount(t *testing.T) {
	svc, db := setupTestWorkScheduleService()
	ws := &model.WorkSchedule{ID: db.id(), Name: "Pagi", StartTime: "08:00:00", EndTime: "16:00:00"}
	db.schedules[ws.ID] = ws
	// 同一员工两天同一班次只计一次
	db.assignments[db.id()] = &model.EmployeeSchedule{EmployeeID: 1, WorkScheduleID: ws.ID, DailyScheduleID: 1}
	db.assignments[db.id()] = &model.EmployeeSchedule{EmployeeID: 1, WorkScheduleID: ws.ID, DailyScheduleID: 2}
	db.assignments[db.id()] = &model.EmployeeSchedule{EmployeeID: 2, WorkScheduleID: ws.ID, DailyScheduleID: 1}

	resp, err := svc.GetByID(context.Background(), ws.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if resp.EmployeeCount != 2 {
		t.Errorf("期望 employee_count=2，实际=%d", resp.EmployeeCount)
	}
	if resp.StartTime != "08:00" || resp.EndTime != "16:00" {
		t.Errorf("时间应规整为 HH:MM，实际 %s-%s", resp.StartTime, resp.EndTime)
	}

	if _, err := svc.GetByID(context.Background(), 9999); !errors.Is(err, ErrWorkScheduleNotFound) {
		t.Errorf("期望 ErrWorkScheduleNotFound，实际: %v", err)
	}
}

func TestWorkScheduleUpdate_OptimisticLock(t *testing.T) {
	svc, _ := setupTestWorkScheduleService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, &dto.CreateWorkScheduleRequest{Name: "Pagi", StartTime: "08:00", EndTime: "16:00"})

	req := &dto.UpdateWorkScheduleRequest{Name: "Pagi", StartTime: "07:30", EndTime: "15:30", ToleranceMinutes: 10, Version: 1}
	updated, err := svc.Update(ctx, created.ID, req)
	if err != nil {
		t.Fatalf("首次更新应成功: %v", err)
	}
	if updated.Version != 2 || updated.StartTime != "07:30" {
		t.Errorf("更新结果不符: %+v", updated)
	}

	// 仍携带旧版本号
	if _, err := svc.Update(ctx, created.ID, req); !errors.Is(err, ErrWorkScheduleConflict) {
		t.Errorf("旧版本号期望 ErrWorkScheduleConflict，实际: %v", err)
	}

	// 不携带版本号时以当前版本为准
	req.Version = 0
	if _, err := svc.Update(ctx, created.ID, req); err != nil {
		t.Errorf("version=0 时应成功，实际: %v", err)
	}
}

func TestWorkScheduleDelete_RemovesAssignments(t *testing.T) {
	svc, db := setupTestWorkScheduleService()
	keep := &model.WorkSchedule{ID: db.id(), Name: "Siang"}
	drop := &model.WorkSchedule{ID: db.id(), Name: "Pagi"}
	db.schedules[keep.ID] = keep
	db.schedules[drop.ID] = drop
	db.assignments[db.id()] = &model.EmployeeSchedule{EmployeeID: 1, WorkScheduleID: drop.ID, DailyScheduleID: 1}
	db.assignments[db.id()] = &model.EmployeeSchedule{EmployeeID: 1, WorkScheduleID: keep.ID, DailyScheduleID: 2}

	if err := svc.Delete(context.Background(), drop.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(db.assignments) != 1 {
		t.Errorf("仅应删除引用该班次的排班，剩余=%d", len(db.assignments))
	}
	if err := svc.Delete(context.Background(), drop.ID); !errors.Is(err, ErrWorkScheduleNotFound) {
		t.Errorf("重复删除期望 ErrWorkScheduleNotFound，实际: %v", err)
	}
}
