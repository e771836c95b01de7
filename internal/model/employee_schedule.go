package model

// EmployeeSchedule 员工排班：对应 employee_schedules
// (employee_id, daily_schedules_id) 唯一：每人每个星期几只有一个班次
type EmployeeSchedule struct {
	ID              uint `gorm:"primaryKey"                                  json:"id"`
	EmployeeID      uint `gorm:"not null"                                    json:"employee_id"`
	WorkScheduleID  uint `gorm:"column:work_schedules_id;not null"           json:"work_schedule_id"`
	DailyScheduleID uint `gorm:"column:daily_schedules_id;not null"          json:"day_id"`
	BaseModel

	// 关联
	Employee      *Employee      `gorm:"foreignKey:EmployeeID"      json:"employee,omitempty"`
	WorkSchedule  *WorkSchedule  `gorm:"foreignKey:WorkScheduleID"  json:"work_schedule,omitempty"`
	DailySchedule *DailySchedule `gorm:"foreignKey:DailyScheduleID" json:"daily_schedule,omitempty"`
}

// TableName 指定表名
func (EmployeeSchedule) TableName() string { return "employee_schedules" }
