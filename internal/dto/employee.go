package dto

// ── 员工模块 DTO ──

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
}

// CreateEmployeeRequest 新增员工
type CreateEmployeeRequest struct {
	NIK      string  `json:"nik"       binding:"required,notblank,max=20"`
	Name     string  `json:"name"      binding:"required,notblank,max=255"`
	Email    string  `json:"email"     binding:"required,email_simple,max=255"`
	Position string  `json:"position"  binding:"required,notblank,max=100"`
	Gender   string  `json:"gender"    binding:"required,oneof=Male Female Other"`
	Password string  `json:"password"  binding:"required,min=6"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// UpdateEmployeeRequest 全量更新员工（PUT），password 为空时不修改
type UpdateEmployeeRequest struct {
	NIK      string  `json:"nik"       binding:"required,notblank,max=20"`
	Name     string  `json:"name"      binding:"required,notblank,max=255"`
	Email    string  `json:"email"     binding:"required,email_simple,max=255"`
	Position string  `json:"position"  binding:"required,notblank,max=100"`
	Gender   string  `json:"gender"    binding:"required,oneof=Male Female Other"`
	Password string  `json:"password"  binding:"omitempty,min=6"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// PatchEmployeeRequest 部分更新员工（PATCH）
type PatchEmployeeRequest struct {
	NIK      *string `json:"nik"       binding:"omitempty,notblank,max=20"`
	Name     *string `json:"name"      binding:"omitempty,notblank,max=255"`
	Email    *string `json:"email"     binding:"omitempty,email_simple,max=255"`
	Position *string `json:"position"  binding:"omitempty,notblank,max=100"`
	Gender   *string `json:"gender"    binding:"omitempty,oneof=Male Female Other"`
	Password *string `json:"password"  binding:"omitempty,min=6"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// EmployeeResponse 员工信息（脱敏）
type EmployeeResponse struct {
	ID       uint    `json:"id"`
	NIK      string  `json:"nik"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Position string  `json:"position"`
	Gender   string  `json:"gender"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// EmployeeDetailResponse 员工详情，含每周排班
type EmployeeDetailResponse struct {
	EmployeeResponse
	Schedules []EmployeeScheduleResponse `json:"schedules"`
}

// EmployeesResponse 员工列表
type EmployeesResponse struct {
	TotalEmployees int64              `json:"total_employees"`
	Employees      []EmployeeResponse `json:"employees"`
}

// ImportEmployeeResponse 批量导入员工响应
type ImportEmployeeResponse struct {
	Total   int                   `json:"total"`
	Success int                   `json:"success"`
	Failed  int                   `json:"failed"`
	Created []ImportedEmployee    `json:"created,omitempty"`
	Errors  []ImportEmployeeError `json:"errors,omitempty"`
}

// ImportedEmployee 导入成功的员工及其初始密码
type ImportedEmployee struct {
	NIK          string `json:"nik"`
	Name         string `json:"name"`
	TempPassword string `json:"temp_password"`
}

// ImportEmployeeError 导入错误详情
type ImportEmployeeError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ── 员工排班 ──

// EmployeeScheduleResponse 员工某个星期几的班次
type EmployeeScheduleResponse struct {
	ID               uint   `json:"id"`
	ScheduleID       uint   `json:"schedule_id"`
	ScheduleName     string `json:"schedule_name"`
	DayID            uint   `json:"day_id"`
	DayName          string `json:"day_name"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	ToleranceMinutes int    `json:"tolerance_minutes"`
}

// AssignScheduleRequest 为员工分配班次
type AssignScheduleRequest struct {
	WorkScheduleID uint `json:"work_schedule_id" binding:"required,min=1"`
	DayID          uint `json:"day_id"           binding:"required,min=1,max=7"`
}

// DailyScheduleResponse 星期
type DailyScheduleResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AvailableSchedulesResponse 可分配的星期与班次
type AvailableSchedulesResponse struct {
	DailySchedules []DailyScheduleResponse `json:"daily_schedules"`
	WorkSchedules  []WorkScheduleResponse  `json:"work_schedules"`
}
