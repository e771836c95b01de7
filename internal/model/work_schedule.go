package model

// WorkSchedule 班次表：对应 work_schedules
// StartTime / EndTime 为 PostgreSQL TIME，读出格式为 HH:MM:SS
type WorkSchedule struct {
	ID               uint   `gorm:"primaryKey"                json:"id"`
	Name             string `gorm:"type:varchar(255);not null" json:"name"`
	StartTime        string `gorm:"type:time;not null"        json:"start_time"`
	EndTime          string `gorm:"type:time;not null"        json:"end_time"`
	ToleranceMinutes int    `gorm:"not null;default:0"        json:"tolerance_minutes"`
	VersionedModel
}

// TableName 指定表名
func (WorkSchedule) TableName() string { return "work_schedules" }
