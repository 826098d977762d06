package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecwid_addon_v1_202609/internal/model"
)

// CategoryRepository 分类镜像仓储接口
type CategoryRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]model.Category, error)
	BatchUpsert(ctx context.Context, categories []model.Category) error
	DeleteMissing(ctx context.Context, storeID string, keepIDs []int64) error
	CountByStore(ctx context.Context, storeID string) (int64, error)

	WithTx(tx *gorm.DB) CategoryRepository
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListByStore(ctx context.Context, storeID string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("parent_id, name").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) BatchUpsert(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ecwid_category_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"parent_id", "name", "product_count", "enabled",
				"ecwid_synced_at", "updated_at",
			}),
		}).
		CreateInBatches(categories, 100).Error
}

func (r *categoryRepo) DeleteMissing(ctx context.Context, storeID string, keepIDs []int64) error {
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if len(keepIDs) > 0 {
		q = q.Where("ecwid_category_id NOT IN ?", keepIDs)
	}
	return q.Delete(&model.Category{}).Error
}

func (r *categoryRepo) CountByStore(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepo{db: tx}
}
