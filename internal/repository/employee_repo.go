package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"presensi/internal/model"
)

// EmployeeListParams 员工列表查询参数
type EmployeeListParams struct {
	Offset int
	Limit  int
	Sort   string // 列名，白名单外回退为 created_at
	Desc   bool
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uint) (*model.Employee, error)
	GetByNIK(ctx context.Context, nik string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params EmployeeListParams) ([]model.Employee, int64, error)
	Search(ctx context.Context, keyword string, limit int) ([]model.Employee, error)
	ExistsNIK(ctx context.Context, nik string, excludeID uint) (bool, error)
	ExistsEmail(ctx context.Context, email string, excludeID uint) (bool, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

var employeeSortColumns = map[string]string{
	"id":         "id",
	"nik":        "nik",
	"name":       "name",
	"email":      "email",
	"position":   "position",
	"gender":     "gender",
	"created_at": "created_at",
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("daily_schedules_id ASC")
		}).
		Preload("Schedules.WorkSchedule").
		Preload("Schedules.DailySchedule").
		First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByNIK(ctx context.Context, nik string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("nik = ?", nik).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).
		Omit("Schedules").
		Save(employee).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepo) List(ctx context.Context, params EmployeeListParams) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Employee{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := employeeSortColumns[params.Sort]
	if !ok {
		col = "created_at"
	}
	order := col + " ASC"
	if params.Desc {
		order = col + " DESC"
	}

	if err := db.Order(order).Order("id ASC").
		Offset(params.Offset).Limit(params.Limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepo) Search(ctx context.Context, keyword string, limit int) ([]model.Employee, error) {
	var employees []model.Employee
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"

	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR nik ILIKE ? OR email ILIKE ? OR position ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepo) ExistsNIK(ctx context.Context, nik string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("nik = ? AND id <> ?", nik, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepo) ExistsEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
