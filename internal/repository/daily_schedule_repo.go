package repository

import (
	"context"

	"gorm.io/gorm"

	"presensi/internal/model"
)

// DailyScheduleRepository 星期字典数据访问接口
type DailyScheduleRepository interface {
	List(ctx context.Context) ([]model.DailySchedule, error)
	GetByID(ctx context.Context, id uint) (*model.DailySchedule, error)
}

type dailyScheduleRepo struct {
	db *gorm.DB
}

// NewDailyScheduleRepo 创建 DailyScheduleRepository 实例
func NewDailyScheduleRepo(db *gorm.DB) DailyScheduleRepository {
	return &dailyScheduleRepo{db: db}
}

func (r *dailyScheduleRepo) List(ctx context.Context) ([]model.DailySchedule, error) {
	var days []model.DailySchedule
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *dailyScheduleRepo) GetByID(ctx context.Context, id uint) (*model.DailySchedule, error) {
	var day model.DailySchedule
	if err := r.db.WithContext(ctx).First(&day, id).Error; err != nil {
		return nil, err
	}
	return &day, nil
}
