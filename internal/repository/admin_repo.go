package repository

import (
	"context"

	"gorm.io/gorm"

	"presensi/internal/model"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
