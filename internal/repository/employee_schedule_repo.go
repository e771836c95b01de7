package repository

import (
	"context"

	"gorm.io/gorm"

	"presensi/internal/model"
)

// EmployeeScheduleRepository 员工排班数据访问接口
type EmployeeScheduleRepository interface {
	Create(ctx context.Context, es *model.EmployeeSchedule) error
	GetByID(ctx context.Context, id uint) (*model.EmployeeSchedule, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeSchedule, error)
	GetByEmployeeAndDay(ctx context.Context, employeeID, dayID uint) (*model.EmployeeSchedule, error)
	ListByDay(ctx context.Context, dayID uint) ([]model.EmployeeSchedule, error)
	Update(ctx context.Context, es *model.EmployeeSchedule) error
	Delete(ctx context.Context, id uint) error
	DeleteByEmployee(ctx context.Context, employeeID uint) error
	DeleteByWorkSchedule(ctx context.Context, workScheduleID uint) error
}

type employeeScheduleRepo struct {
	db *gorm.DB
}

// NewEmployeeScheduleRepo 创建 EmployeeScheduleRepository 实例
func NewEmployeeScheduleRepo(db *gorm.DB) EmployeeScheduleRepository {
	return &employeeScheduleRepo{db: db}
}

func (r *employeeScheduleRepo) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("WorkSchedule").Preload("DailySchedule")
}

func (r *employeeScheduleRepo) Create(ctx context.Context, es *model.EmployeeSchedule) error {
	return r.db.WithContext(ctx).
		Omit("Employee", "WorkSchedule", "DailySchedule").
		Create(es).Error
}

func (r *employeeScheduleRepo) GetByID(ctx context.Context, id uint) (*model.EmployeeSchedule, error) {
	var es model.EmployeeSchedule
	if err := r.preload(r.db.WithContext(ctx)).First(&es, id).Error; err != nil {
		return nil, err
	}
	return &es, nil
}

func (r *employeeScheduleRepo) ListByEmployee(ctx context.Context, employeeID uint) ([]model.EmployeeSchedule, error) {
	var list []model.EmployeeSchedule
	err := r.preload(r.db.WithContext(ctx)).
		Where("employee_id = ?", employeeID).
		Order("daily_schedules_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *employeeScheduleRepo) GetByEmployeeAndDay(ctx context.Context, employeeID, dayID uint) (*model.EmployeeSchedule, error) {
	var es model.EmployeeSchedule
	err := r.preload(r.db.WithContext(ctx)).
		Where("employee_id = ? AND daily_schedules_id = ?", employeeID, dayID).
		First(&es).Error
	if err != nil {
		return nil, err
	}
	return &es, nil
}

// ListByDay 某个星期几的全部排班（仅在职员工）
func (r *employeeScheduleRepo) ListByDay(ctx context.Context, dayID uint) ([]model.EmployeeSchedule, error) {
	var list []model.EmployeeSchedule
	err := r.preload(r.db.WithContext(ctx)).
		Joins("JOIN employees ON employees.id = employee_schedules.employee_id AND employees.deleted_at IS NULL").
		Where("employee_schedules.daily_schedules_id = ?", dayID).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *employeeScheduleRepo) Update(ctx context.Context, es *model.EmployeeSchedule) error {
	return r.db.WithContext(ctx).
		Model(&model.EmployeeSchedule{}).
		Where("id = ?", es.ID).
		Updates(map[string]interface{}{
			"work_schedules_id":  es.WorkScheduleID,
			"daily_schedules_id": es.DailyScheduleID,
		}).Error
}

func (r *employeeScheduleRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.EmployeeSchedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeScheduleRepo) DeleteByEmployee(ctx context.Context, employeeID uint) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&model.EmployeeSchedule{}).Error
}

func (r *employeeScheduleRepo) DeleteByWorkSchedule(ctx context.Context, workScheduleID uint) error {
	return r.db.WithContext(ctx).
		Where("work_schedules_id = ?", workScheduleID).
		Delete(&model.EmployeeSchedule{}).Error
}
