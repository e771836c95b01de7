package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"presensi/internal/dto"
	"presensi/internal/model"
)

func setupTestEmployeeScheduleService() (EmployeeScheduleService, *mockDB, *model.Employee, *model.WorkSchedule) {
	db := newMockDB()
	e := &model.Employee{ID: db.id(), NIK: "1001", Name: "Andi"}
	db.employees[e.ID] = e
	ws := &model.WorkSchedule{ID: db.id(), Name: "Pagi", StartTime: "08:00:00", EndTime: "16:00:00", ToleranceMinutes: 10}
	db.schedules[ws.ID] = ws
	return NewEmployeeScheduleService(newMockRepository(db), zap.NewNop()), db, e, ws
}

func TestAssignSchedule(t *testing.T) {
	svc, _, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()

	resp, err := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 3})
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if resp.DayName != "Wednesday" || resp.ScheduleName != "Pagi" || resp.ToleranceMinutes != 10 {
		t.Errorf("返回内容不符: %+v", resp)
	}

	_, err = svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 3})
	if !errors.Is(err, ErrDayAlreadyAssigned) {
		t.Errorf("同一天重复分配期望 ErrDayAlreadyAssigned，实际: %v", err)
	}
}

func TestAssignSchedule_InvalidTargets(t *testing.T) {
	svc, _, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()

	if _, err := svc.Assign(ctx, 9999, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 1}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}
	if _, err := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: 9999, DayID: 1}); !errors.Is(err, ErrWorkScheduleNotFound) {
		t.Errorf("期望 ErrWorkScheduleNotFound，实际: %v", err)
	}
	if _, err := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 8}); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("期望 ErrDayNotFound，实际: %v", err)
	}
}

func TestAvailableSchedules_ExcludesAssignedDays(t *testing.T) {
	svc, _, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()
	_, _ = svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 1})
	_, _ = svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 5})

	resp, err := svc.Available(ctx, e.ID)
	if err != nil {
		t.Fatalf("Available 应成功: %v", err)
	}
	if len(resp.DailySchedules) != 5 {
		t.Errorf("期望剩余 5 天，实际=%d", len(resp.DailySchedules))
	}
	for _, d := range resp.DailySchedules {
		if d.ID == 1 || d.ID == 5 {
			t.Errorf("已分配的星期 %d 不应出现", d.ID)
		}
	}
	if len(resp.WorkSchedules) != 1 {
		t.Errorf("期望 1 个班次，实际=%d", len(resp.WorkSchedules))
	}
}

func TestWeeklySchedule_SortedByDay(t *testing.T) {
	svc, _, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()
	for _, day := range []uint{5, 1, 3} {
		if _, err := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: day}); err != nil {
			t.Fatalf("Assign(%d) 失败: %v", day, err)
		}
	}

	list, err := svc.Weekly(ctx, e.ID)
	if err != nil {
		t.Fatalf("Weekly 应成功: %v", err)
	}
	want := []uint{1, 3, 5}
	if len(list) != len(want) {
		t.Fatalf("期望 %d 条，实际=%d", len(want), len(list))
	}
	for i, d := range want {
		if list[i].DayID != d {
			t.Errorf("第 %d 条期望星期 %d，实际=%d", i, d, list[i].DayID)
		}
	}
}

func TestUpdateSchedule_MoveDay(t *testing.T) {
	svc, db, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()
	mon, _ := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 1})
	_, _ = svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 2})

	if _, err := svc.Update(ctx, e.ID, mon.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 2}); !errors.Is(err, ErrDayAlreadyAssigned) {
		t.Errorf("移动到已占用的星期期望 ErrDayAlreadyAssigned，实际: %v", err)
	}

	evening := &model.WorkSchedule{ID: db.id(), Name: "Malam", StartTime: "20:00:00", EndTime: "23:00:00"}
	db.schedules[evening.ID] = evening
	resp, err := svc.Update(ctx, e.ID, mon.ID, &dto.AssignScheduleRequest{WorkScheduleID: evening.ID, DayID: 4})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.DayID != 4 || resp.ScheduleName != "Malam" {
		t.Errorf("更新结果不符: %+v", resp)
	}
}

func TestRemoveSchedule_Ownership(t *testing.T) {
	svc, db, e, ws := setupTestEmployeeScheduleService()
	ctx := context.Background()
	other := &model.Employee{ID: db.id(), NIK: "1002"}
	db.employees[other.ID] = other
	es, _ := svc.Assign(ctx, e.ID, &dto.AssignScheduleRequest{WorkScheduleID: ws.ID, DayID: 1})

	if err := svc.Remove(ctx, other.ID, es.ID); !errors.Is(err, ErrEmployeeScheduleNotFound) {
		t.Errorf("删除他人排班期望 ErrEmployeeScheduleNotFound，实际: %v", err)
	}
	if err := svc.Remove(ctx, e.ID, es.ID); err != nil {
		t.Fatalf("Remove 应成功: %v", err)
	}
	if len(db.assignments) != 0 {
		t.Error("排班应已删除")
	}
}
