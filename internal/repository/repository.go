package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor 在同一事务中执行 fn，fn 返回错误或 panic 时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Admin            AdminRepository
	Employee         EmployeeRepository
	WorkSchedule     WorkScheduleRepository
	DailySchedule    DailyScheduleRepository
	EmployeeSchedule EmployeeScheduleRepository
	Attendance       AttendanceRepository

	Tx Transactor
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Admin:            NewAdminRepo(db),
		Employee:         NewEmployeeRepo(db),
		WorkSchedule:     NewWorkScheduleRepo(db),
		DailySchedule:    NewDailyScheduleRepo(db),
		EmployeeSchedule: NewEmployeeScheduleRepo(db),
		Attendance:       NewAttendanceRepo(db),
		Tx:               gormTransactor{db: db},
	}
}

// Transaction 事务内 fn 收到绑定到同一事务的 Repository 聚合
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.Tx.Transaction(ctx, fn)
}

type gormTransactor struct {
	db *gorm.DB
}

func (t gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
