package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presensi/internal/model"
)

// AttendanceFilter 管理端考勤查询条件，零值表示不过滤
type AttendanceFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	EmployeeID uint
	Status     string
}

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	Update(ctx context.Context, a *model.Attendance) error
	GetByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*model.Attendance, error)
	ListByEmployeeSince(ctx context.Context, employeeID uint, since time.Time) ([]model.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error)
	// CreateAbsentBatch 批量写入缺勤记录，(employee_id, date) 冲突时跳过，返回实际写入条数
	CreateAbsentBatch(ctx context.Context, rows []model.Attendance) (int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).
		Omit("Employee", "WorkSchedule").
		Create(a).Error
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"check_in_time":  a.CheckInTime,
			"check_out_time": a.CheckOutTime,
			"status":         a.Status,
		}).Error
}

func (r *attendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("WorkSchedule", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("employee_id = ? AND date = ?", employeeID, date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) ListByEmployeeSince(ctx context.Context, employeeID uint, since time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("WorkSchedule", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("employee_id = ? AND date >= ?", employeeID, since.Format("2006-01-02")).
		Order("date DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error) {
	var list []model.Attendance
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attendance{})
	if filter.DateFrom != nil {
		db = db.Where("date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		db = db.Where("date <= ?", filter.DateTo.Format("2006-01-02"))
	}
	if filter.EmployeeID != 0 {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 已离职员工与已删除班次的历史记录仍需展示姓名
	err := db.
		Preload("Employee", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("WorkSchedule", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("date DESC").Order("check_in_time ASC NULLS LAST").Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *attendanceRepo) CreateAbsentBatch(ctx context.Context, rows []model.Attendance) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Omit("Employee", "WorkSchedule").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&rows)
	return result.RowsAffected, result.Error
}
