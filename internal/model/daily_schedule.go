package model

// DailySchedule 星期字典表：对应 daily_schedules（1=Monday 至 7=Sunday，迁移时写入）
type DailySchedule struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(20);not null"      json:"name"`
	BaseModel
}

// TableName 指定表名
func (DailySchedule) TableName() string { return "daily_schedules" }
