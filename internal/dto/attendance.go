package dto

// ── 考勤模块 DTO ──

// AttendanceListRequest 管理端考勤查询参数（日期格式 YYYY-MM-DD）
type AttendanceListRequest struct {
	DateFrom   string `form:"date_from"   binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to"     binding:"omitempty,datetime=2006-01-02"`
	EmployeeID uint   `form:"employee_id" binding:"omitempty,min=1"`
	Status     string `form:"status"      binding:"omitempty,oneof='On Time' Late Absent"`
}

// AttendanceResponse 管理端考勤记录
type AttendanceResponse struct {
	AttendanceID   uint   `json:"attendance_id"`
	EmployeeID     uint   `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	Position       string `json:"position"`
	AttendanceDate string `json:"attendance_date"`
	CheckInTime    string `json:"check_in_time,omitempty"`
	CheckOutTime   string `json:"check_out_time,omitempty"`
	Status         string `json:"status"`
	ScheduleName   string `json:"schedule_name,omitempty"`
}

// AttendancesResponse 管理端考勤列表
type AttendancesResponse struct {
	TotalAttendance int64                `json:"total_attendance"`
	Attendances     []AttendanceResponse `json:"attendances"`
}

// ScanRequest 员工扫码签到
type ScanRequest struct {
	QRData string `json:"qr_data"`
}

// AttendanceRecord 员工端考勤记录（时间为 HH:MM）
type AttendanceRecord struct {
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Status       string `json:"status"`
	ScheduleName string `json:"schedule_name,omitempty"`
}

// ScanResponse 签到结果
type ScanResponse struct {
	AttendanceRecord
	EmployeeName string `json:"employee_name"`
}

// HistorySummary 历史统计
type HistorySummary struct {
	OnTime int `json:"on_time"`
	Late   int `json:"late"`
	Absent int `json:"absent"`
}

// HistoryResponse 员工考勤历史
type HistoryResponse struct {
	Range   string             `json:"range"`
	Records []AttendanceRecord `json:"records"`
	Summary HistorySummary     `json:"summary"`
}
