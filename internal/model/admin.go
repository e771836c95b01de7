package model

// Admin 管理员表：对应 admins
type Admin struct {
	ID           uint   `gorm:"primaryKey"                  json:"id"`
	Name         string `gorm:"type:varchar(255);not null"  json:"name"`
	Email        string `gorm:"type:varchar(255);not null"  json:"email"`
	PasswordHash string `gorm:"column:password;not null"    json:"-"`
	BaseModel
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
