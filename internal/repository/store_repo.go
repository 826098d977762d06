package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	GetByEcwidStoreID(ctx context.Context, storeID string) (*model.Store, error)
	SaveOrUpdate(ctx context.Context, store *model.Store) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]model.Store, int64, error)

	// Token 维护
	UpdateTokenStatus(ctx context.Context, id int64, status string) error
	FindExpiringStores(ctx context.Context, within time.Duration) ([]model.Store, error)
	FindActiveStores(ctx context.Context) ([]model.Store, error)

	// 同步状态
	MarkSyncRunning(ctx context.Context, id int64, running bool) error
	MarkSynced(ctx context.Context, id int64, productCount, categoryCount int, syncErr string) error

	WithTx(tx *gorm.DB) StoreRepository
}

// ==================== 仓储实现 ====================

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Preload("Settings").
		First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) GetByEcwidStoreID(ctx context.Context, storeID string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Where("ecwid_store_id = ?", storeID).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) SaveOrUpdate(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Store{}, id).Error
}

func (r *storeRepo) List(ctx context.Context, page, pageSize int) ([]model.Store, int64, error) {
	var (
		stores []model.Store
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&model.Store{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&stores).Error
	return stores, total, err
}

func (r *storeRepo) UpdateTokenStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Update("token_status", status).Error
}

// FindExpiringStores 查找 Token 即将过期的正常店铺
func (r *storeRepo) FindExpiringStores(ctx context.Context, within time.Duration) ([]model.Store, error) {
	var stores []model.Store
	deadline := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Where("token_status = ?", model.TokenStatusValid).
		Where("token_expires_at <= ?", deadline).
		Where("refresh_token <> ''").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindActiveStores(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) MarkSyncRunning(ctx context.Context, id int64, running bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Update("sync_running", running).Error
}

// MarkSynced 同步完成后回写镜像统计
// syncErr 非空表示本轮失败，isSynced 不会置 true
func (r *storeRepo) MarkSynced(ctx context.Context, id int64, productCount, categoryCount int, syncErr string) error {
	now := time.Now()
	fields := map[string]interface{}{
		"sync_running":  false,
		"last_sync_at":  &now,
		"last_sync_err": syncErr,
	}
	if syncErr == "" {
		fields["is_synced"] = true
		fields["product_count"] = productCount
		fields["category_count"] = categoryCount
	}
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *storeRepo) WithTx(tx *gorm.DB) StoreRepository {
	return &storeRepo{db: tx}
}
