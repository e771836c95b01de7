package model

// 性别枚举
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Employee 员工表：对应 employees
type Employee struct {
	ID           uint    `gorm:"primaryKey"                  json:"id"`
	NIK          string  `gorm:"column:nik;type:varchar(20);not null" json:"nik"`
	Name         string  `gorm:"type:varchar(255);not null"  json:"name"`
	Gender       string  `gorm:"type:varchar(10);not null"   json:"gender"`
	Position     string  `gorm:"type:varchar(100);not null"  json:"position"`
	Email        string  `gorm:"type:varchar(255);not null"  json:"email"`
	PhotoURL     *string `gorm:"column:photo_url"            json:"photo_url,omitempty"`
	PasswordHash string  `gorm:"column:password;not null"    json:"-"`
	SoftDeleteModel

	// 关联
	Schedules []EmployeeSchedule `gorm:"foreignKey:EmployeeID" json:"schedules,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
