package handler

import "presensi/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Employee     *EmployeeHandler
	WorkSchedule *WorkScheduleHandler
	Attendance   *AttendanceHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Employee:     NewEmployeeHandler(svc.Employee, svc.EmployeeSchedule),
		WorkSchedule: NewWorkScheduleHandler(svc.WorkSchedule, svc.QR),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Export:       NewExportHandler(svc.Export),
	}
}
