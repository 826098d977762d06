package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// OrderRepository 订单镜像仓储接口
type OrderRepository interface {
	GetByEcwidOrderID(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	BatchUpsert(ctx context.Context, orders []model.Order) error
	CountByStore(ctx context.Context, storeID string) (int64, error)

	WithTx(tx *gorm.DB) OrderRepository
}

// OrderFilter 订单过滤条件
type OrderFilter struct {
	StoreID       string
	PaymentStatus string
	Since         *time.Time
	Page          int
	PageSize      int
}

// ==================== 仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) GetByEcwidOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("ecwid_order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var (
		orders []model.Order
		total  int64
	)

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("store_id = ?", filter.StoreID)
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Since != nil {
		q = q.Where("placed_at >= ?", *filter.Since)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := q.Order("placed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) BatchUpsert(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ecwid_order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"customer_email", "total", "subtotal", "currency_code",
				"payment_status", "order_status", "item_count", "placed_at",
				"ecwid_raw_data", "updated_at",
			}),
		}).
		CreateInBatches(orders, 100).Error
}

func (r *orderRepo) CountByStore(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *orderRepo) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepo{db: tx}
}
