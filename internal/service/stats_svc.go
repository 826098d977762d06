package service

import (
	"context"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// StatsService 仪表盘聚合服务
// 纯读端，每次现算，不做缓存 (各管理页各自拉各自的)
type StatsService struct {
	StoreRepo     repository.StoreRepository
	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	OrderRepo     repository.OrderRepository
	AnalyticsRepo repository.AnalyticsRepository
}

// NewStatsService 工厂方法
func NewStatsService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	analyticsRepo repository.AnalyticsRepository,
) *StatsService {
	return &StatsService{
		StoreRepo:     storeRepo,
		ProductRepo:   productRepo,
		CategoryRepo:  categoryRepo,
		OrderRepo:     orderRepo,
		AnalyticsRepo: analyticsRepo,
	}
}

// GetStoreStats 仪表盘数字
func (s *StatsService) GetStoreStats(ctx context.Context, storeID string) (*model.StoreStats, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}

	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	stats := &model.StoreStats{
		StoreID:       storeID,
		IsSynced:      store.IsSynced,
		Authenticated: store.Authenticated(),
	}

	if stats.ProductCount, err = s.ProductRepo.CountByStore(ctx, storeID); err != nil {
		return nil, err
	}
	if stats.CategoryCount, err = s.CategoryRepo.CountByStore(ctx, storeID); err != nil {
		return nil, err
	}
	if stats.OrderCount, err = s.OrderRepo.CountByStore(ctx, storeID); err != nil {
		return nil, err
	}
	if stats.EventCount, err = s.AnalyticsRepo.CountByStore(ctx, storeID); err != nil {
		return nil, err
	}

	return stats, nil
}
