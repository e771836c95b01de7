package service

import (
	"time"

	"presensi/internal/attendance"
	"presensi/internal/dto"
	"presensi/internal/model"
)

// ── model → dto 转换 ──

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:       e.ID,
		NIK:      e.NIK,
		Name:     e.Name,
		Email:    e.Email,
		Position: e.Position,
		Gender:   e.Gender,
		PhotoURL: e.PhotoURL,
	}
}

// clockText 把 TIME 列的 HH:MM:SS 规整为 HH:MM
func clockText(s string) string {
	c, err := attendance.ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}

func toWorkScheduleResponse(ws *model.WorkSchedule) dto.WorkScheduleResponse {
	return dto.WorkScheduleResponse{
		ID:               ws.ID,
		Name:             ws.Name,
		StartTime:        clockText(ws.StartTime),
		EndTime:          clockText(ws.EndTime),
		ToleranceMinutes: ws.ToleranceMinutes,
		Version:          ws.Version,
		CreatedAt:        ws.CreatedAt.Format(time.RFC3339),
	}
}

func toEmployeeScheduleResponse(es *model.EmployeeSchedule) dto.EmployeeScheduleResponse {
	resp := dto.EmployeeScheduleResponse{
		ID:         es.ID,
		ScheduleID: es.WorkScheduleID,
		DayID:      es.DailyScheduleID,
	}
	if es.WorkSchedule != nil {
		resp.ScheduleName = es.WorkSchedule.Name
		resp.StartTime = clockText(es.WorkSchedule.StartTime)
		resp.EndTime = clockText(es.WorkSchedule.EndTime)
		resp.ToleranceMinutes = es.WorkSchedule.ToleranceMinutes
	}
	if es.DailySchedule != nil {
		resp.DayName = es.DailySchedule.Name
	}
	return resp
}

// dateOnly 日历日，统一为 UTC 零点（与 DATE 列读出的表示一致）
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clockIn(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return attendance.ClockOf(t.In(loc)).String()
}

// toRecord 数据库行 → 台账记录，日期落到考勤时区
func toRecord(a *model.Attendance, loc *time.Location) attendance.Record {
	y, m, d := a.Date.Date()
	rec := attendance.Record{
		Date:   time.Date(y, m, d, 0, 0, 0, 0, loc),
		Status: attendance.Status(a.Status),
	}
	if a.CheckInTime != nil {
		t := a.CheckInTime.In(loc)
		rec.CheckIn = &t
	}
	if a.CheckOutTime != nil {
		t := a.CheckOutTime.In(loc)
		rec.CheckOut = &t
	}
	return rec
}

func toAttendanceRecord(rec attendance.Record, scheduleName string) dto.AttendanceRecord {
	out := dto.AttendanceRecord{
		Date:         rec.Key(),
		Status:       string(rec.Status),
		ScheduleName: scheduleName,
	}
	if rec.CheckIn != nil {
		out.CheckInTime = attendance.ClockOf(*rec.CheckIn).String()
	}
	if rec.CheckOut != nil {
		out.CheckOutTime = attendance.ClockOf(*rec.CheckOut).String()
	}
	return out
}
