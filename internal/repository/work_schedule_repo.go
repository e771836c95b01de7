package repository

import (
	"context"

	"gorm.io/gorm"

	"presensi/internal/model"
	pkgerrors "presensi/pkg/errors"
)

// WorkScheduleRepository 班次数据访问接口
type WorkScheduleRepository interface {
	Create(ctx context.Context, ws *model.WorkSchedule) error
	GetByID(ctx context.Context, id uint) (*model.WorkSchedule, error)
	List(ctx context.Context) ([]model.WorkSchedule, int64, error)
	Update(ctx context.Context, ws *model.WorkSchedule) error
	Delete(ctx context.Context, id uint) error
	CountEmployees(ctx context.Context, id uint) (int64, error)
}

type workScheduleRepo struct {
	db *gorm.DB
}

// NewWorkScheduleRepo 创建 WorkScheduleRepository 实例
func NewWorkScheduleRepo(db *gorm.DB) WorkScheduleRepository {
	return &workScheduleRepo{db: db}
}

func (r *workScheduleRepo) Create(ctx context.Context, ws *model.WorkSchedule) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

func (r *workScheduleRepo) GetByID(ctx context.Context, id uint) (*model.WorkSchedule, error) {
	var ws model.WorkSchedule
	if err := r.db.WithContext(ctx).First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workScheduleRepo) List(ctx context.Context) ([]model.WorkSchedule, int64, error) {
	var list []model.WorkSchedule
	if err := r.db.WithContext(ctx).
		Order("start_time ASC").Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, int64(len(list)), nil
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *workScheduleRepo) Update(ctx context.Context, ws *model.WorkSchedule) error {
	oldVersion := ws.Version
	result := r.db.WithContext(ctx).
		Model(ws).
		Where("id = ? AND version = ?", ws.ID, oldVersion).
		Updates(map[string]interface{}{
			"name":              ws.Name,
			"start_time":        ws.StartTime,
			"end_time":          ws.EndTime,
			"tolerance_minutes": ws.ToleranceMinutes,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	ws.Version = oldVersion + 1
	return nil
}

func (r *workScheduleRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.WorkSchedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountEmployees 统计使用该班次的员工人数（去重）
func (r *workScheduleRepo) CountEmployees(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EmployeeSchedule{}).
		Joins("JOIN employees ON employees.id = employee_schedules.employee_id AND employees.deleted_at IS NULL").
		Where("employee_schedules.work_schedules_id = ?", id).
		Distinct("employee_schedules.employee_id").
		Count(&count).Error
	return count, err
}
