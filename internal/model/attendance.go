package model

import "time"

// Attendance 考勤记录：对应 attendances
// (employee_id, date) 唯一：每人每天一条
type Attendance struct {
	ID             uint       `gorm:"primaryKey"                  json:"id"`
	EmployeeID     uint       `gorm:"not null"                    json:"employee_id"`
	WorkScheduleID *uint      `gorm:"column:work_schedule_id"     json:"work_schedule_id,omitempty"`
	Date           time.Time  `gorm:"type:date;not null"          json:"date"`
	CheckInTime    *time.Time `gorm:"column:check_in_time"        json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time `gorm:"column:check_out_time"       json:"check_out_time,omitempty"`
	Status         string     `gorm:"type:varchar(32);not null"   json:"status"`
	BaseModel

	// 关联
	Employee     *Employee     `gorm:"foreignKey:EmployeeID"     json:"employee,omitempty"`
	WorkSchedule *WorkSchedule `gorm:"foreignKey:WorkScheduleID" json:"work_schedule,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
