package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// SettingsRepository 推荐设置仓储接口
type SettingsRepository interface {
	// GetByStoreID 按平台 store_id 查询，不存在时返回 gorm.ErrRecordNotFound
	GetByStoreID(ctx context.Context, storeID string) (*model.RecommendationSettings, error)

	// GetOrDefault 不存在时返回全 false 默认值 (不落库)
	GetOrDefault(ctx context.Context, storeID string) (*model.RecommendationSettings, error)

	// Save 整对象覆盖保存，后写者胜
	Save(ctx context.Context, settings *model.RecommendationSettings) error

	Delete(ctx context.Context, storeID string) error

	WithTx(tx *gorm.DB) SettingsRepository
}

// ==================== 仓储实现 ====================

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository 创建推荐设置仓储
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetByStoreID(ctx context.Context, storeID string) (*model.RecommendationSettings, error) {
	var settings model.RecommendationSettings
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) GetOrDefault(ctx context.Context, storeID string) (*model.RecommendationSettings, error) {
	settings, err := r.GetByStoreID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultSettings(storeID), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Save 整对象保存
// 已有记录时沿用原主键做覆盖更新，避免 uniqueIndex 冲突
func (r *settingsRepo) Save(ctx context.Context, settings *model.RecommendationSettings) error {
	if settings.ID == 0 {
		var existing model.RecommendationSettings
		err := r.db.WithContext(ctx).
			Where("store_id = ?", settings.StoreID).
			First(&existing).Error
		if err == nil {
			settings.ID = existing.ID
			settings.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *settingsRepo) Delete(ctx context.Context, storeID string) error {
	return r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Delete(&model.RecommendationSettings{}).Error
}

func (r *settingsRepo) WithTx(tx *gorm.DB) SettingsRepository {
	return &settingsRepo{db: tx}
}
