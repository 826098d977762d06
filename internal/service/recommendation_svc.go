package service

import (
	"context"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// RecommendationService 推荐读取服务
// 只按落库顺序返回同步阶段写入的预计算关系，没有任何排序/打分逻辑
type RecommendationService struct {
	ProductRepo  repository.ProductRepository
	SettingsRepo repository.SettingsRepository
}

// NewRecommendationService 工厂方法
func NewRecommendationService(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository) *RecommendationService {
	return &RecommendationService{
		ProductRepo:  productRepo,
		SettingsRepo: settingsRepo,
	}
}

// GetForProduct 取某商品的推荐列表
// 空列表正常返回空数组：挂件侧对空结果不渲染任何东西
func (s *RecommendationService) GetForProduct(ctx context.Context, storeID string, productID int64) ([]model.RecommendedProduct, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}

	recs, err := s.ProductRepo.GetRecommendedProducts(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.RecommendedProduct{}
	}
	return recs, nil
}

// FeatureEnabled 渲染闸门：挂件请求时按设置判定是否出推荐
func (s *RecommendationService) FeatureEnabled(ctx context.Context, storeID, category, location string) (bool, error) {
	settings, err := s.SettingsRepo.GetOrDefault(ctx, storeID)
	if err != nil {
		return false, err
	}
	return settings.EnabledAt(category, location), nil
}
