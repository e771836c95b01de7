package dto

// ── 班次模块 DTO ──

// CreateWorkScheduleRequest 新增班次
type CreateWorkScheduleRequest struct {
	Name             string `json:"name"              binding:"required,max=255"`
	StartTime        string `json:"start_time"        binding:"required,hhmm"`
	EndTime          string `json:"end_time"          binding:"required,hhmm"`
	ToleranceMinutes int    `json:"tolerance_minutes" binding:"min=0,max=240"`
}

// TimeRange 供结构体级起止时间校验
func (r CreateWorkScheduleRequest) TimeRange() (string, string) { return r.StartTime, r.EndTime }

// UpdateWorkScheduleRequest 更新班次；version 用于乐观锁，0 表示不校验
type UpdateWorkScheduleRequest struct {
	Name             string `json:"name"              binding:"required,max=255"`
	StartTime        string `json:"start_time"        binding:"required,hhmm"`
	EndTime          string `json:"end_time"          binding:"required,hhmm"`
	ToleranceMinutes int    `json:"tolerance_minutes" binding:"min=0,max=240"`
	Version          int    `json:"version"           binding:"omitempty,min=1"`
}

// TimeRange 供结构体级起止时间校验
func (r UpdateWorkScheduleRequest) TimeRange() (string, string) { return r.StartTime, r.EndTime }

// WorkScheduleResponse 班次信息
type WorkScheduleResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	ToleranceMinutes int    `json:"tolerance_minutes"`
	Version          int    `json:"version"`
	CreatedAt        string `json:"created_at"`
}

// WorkScheduleDetailResponse 班次详情
type WorkScheduleDetailResponse struct {
	WorkScheduleResponse
	UpdatedAt     string `json:"updated_at"`
	EmployeeCount int64  `json:"employee_count"`
}

// WorkSchedulesResponse 班次列表
type WorkSchedulesResponse struct {
	TotalSchedules int64                  `json:"total_schedules"`
	WorkSchedules  []WorkScheduleResponse `json:"work_schedules"`
}

// ── 二维码 ──

// QRCodeResponse 考勤二维码令牌
type QRCodeResponse struct {
	QRToken   string               `json:"qr_token"`
	ExpiresIn int                  `json:"expires_in"` // 秒
	ExpiresAt string               `json:"expires_at"`
	Schedule  WorkScheduleResponse `json:"schedule"`
}
