package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// AnalyticsService 埋点服务
type AnalyticsService struct {
	AnalyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsService 工厂方法
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{AnalyticsRepo: analyticsRepo}
}

// 合法事件类型
var validEventTypes = map[string]bool{
	model.EventImpression: true,
	model.EventClick:      true,
	model.EventAddToCart:  true,
}

// Record 记录单条事件
func (s *AnalyticsService) Record(ctx context.Context, event *model.AnalyticsEvent) error {
	if event.StoreID == "" {
		return ErrMissingStoreID
	}
	if !validEventTypes[event.EventType] {
		return fmt.Errorf("未知事件类型: %s", event.EventType)
	}
	if event.SessionID == "" {
		// 挂件未带会话标识时服务端补一个，保证漏斗可关联
		event.SessionID = uuid.NewString()
	}
	return s.AnalyticsRepo.Create(ctx, event)
}

// RecordBatch 批量记录 (挂件侧攒批上报)
func (s *AnalyticsService) RecordBatch(ctx context.Context, events []model.AnalyticsEvent) error {
	for i := range events {
		if events[i].StoreID == "" {
			return ErrMissingStoreID
		}
		if !validEventTypes[events[i].EventType] {
			return fmt.Errorf("未知事件类型: %s", events[i].EventType)
		}
		if events[i].SessionID == "" {
			// 与单条上报同口径，缺会话标识的批量事件也补齐
			events[i].SessionID = uuid.NewString()
		}
	}
	return s.AnalyticsRepo.BatchCreate(ctx, events)
}

// Summary 查询事件汇总
// days <= 0 表示全量
func (s *AnalyticsService) Summary(ctx context.Context, storeID string, days int) (*model.AnalyticsSummary, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}

	var since *time.Time
	if days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		since = &t
	}

	byType, err := s.AnalyticsRepo.CountByType(ctx, storeID, since)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.AnalyticsRepo.CountByCategory(ctx, storeID, since)
	if err != nil {
		return nil, err
	}

	return &model.AnalyticsSummary{
		StoreID:     storeID,
		Impressions: byType[model.EventImpression],
		Clicks:      byType[model.EventClick],
		AddToCarts:  byType[model.EventAddToCart],
		ByCategory:  byCategory,
	}, nil
}
