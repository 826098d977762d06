package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== AdminRepository 运维账号仓库 ====================

// AdminRepository 运维账号仓库接口
type AdminRepository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	GetByID(ctx context.Context, id int64) (*model.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ==================== 实现 ====================

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建运维账号仓库
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.WithContext(ctx).First(&admin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &admin, err
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &admin, err
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("password", hashedPassword).Error
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("last_login_at", &now).Error
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AdminUser{}).Count(&count).Error
	return count, err
}
