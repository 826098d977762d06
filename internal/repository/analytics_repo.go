package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// AnalyticsRepository 埋点事件仓储接口
type AnalyticsRepository interface {
	Create(ctx context.Context, event *model.AnalyticsEvent) error
	BatchCreate(ctx context.Context, events []model.AnalyticsEvent) error

	// 聚合查询
	CountByType(ctx context.Context, storeID string, since *time.Time) (map[string]int64, error)
	CountByCategory(ctx context.Context, storeID string, since *time.Time) (map[string]int64, error)
	CountByStore(ctx context.Context, storeID string) (int64, error)

	WithTx(tx *gorm.DB) AnalyticsRepository
}

// ==================== 仓储实现 ====================

type analyticsRepo struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建埋点仓储
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) Create(ctx context.Context, event *model.AnalyticsEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *analyticsRepo) BatchCreate(ctx context.Context, events []model.AnalyticsEvent) error {
	if len(events) == 0 {
		return nil
	}
	now := time.Now()
	for i := range events {
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = now
		}
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 200).Error
}

// typeCount 聚合扫描用
type typeCount struct {
	Key   string
	Count int64
}

func (r *analyticsRepo) CountByType(ctx context.Context, storeID string, since *time.Time) (map[string]int64, error) {
	return r.countGrouped(ctx, storeID, "event_type", since)
}

func (r *analyticsRepo) CountByCategory(ctx context.Context, storeID string, since *time.Time) (map[string]int64, error) {
	return r.countGrouped(ctx, storeID, "category", since)
}

func (r *analyticsRepo) countGrouped(ctx context.Context, storeID, column string, since *time.Time) (map[string]int64, error) {
	var rows []typeCount
	q := r.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Select(column+" AS key, COUNT(*) AS count").
		Where("store_id = ?", storeID)
	if since != nil {
		q = q.Where("occurred_at >= ?", *since)
	}
	if err := q.Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

func (r *analyticsRepo) CountByStore(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepo) WithTx(tx *gorm.DB) AnalyticsRepository {
	return &analyticsRepo{db: tx}
}
