package service

import (
	"context"
	"fmt"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// SettingsService 推荐设置服务
// 加载是整对象替换，保存是整对象覆盖，后写者胜，无并发版本检查
type SettingsService struct {
	SettingsRepo repository.SettingsRepository
	authSvc      *AuthService
}

// NewSettingsService 工厂方法
func NewSettingsService(settingsRepo repository.SettingsRepository, authSvc *AuthService) *SettingsService {
	return &SettingsService{
		SettingsRepo: settingsRepo,
		authSvc:      authSvc,
	}
}

// Load 加载店铺推荐设置
// 未授权返回 ErrOAuthSetupRequired (端点层转 401)；无记录返回全 false 默认值
func (s *SettingsService) Load(ctx context.Context, storeID string) (*model.RecommendationSettings, error) {
	if _, err := s.authSvc.RequireAuthenticated(ctx, storeID); err != nil {
		return nil, err
	}
	return s.SettingsRepo.GetOrDefault(ctx, storeID)
}

// Save 整对象保存
func (s *SettingsService) Save(ctx context.Context, storeID string, settings *model.RecommendationSettings) error {
	if _, err := s.authSvc.RequireAuthenticated(ctx, storeID); err != nil {
		return err
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	settings.StoreID = storeID
	return s.SettingsRepo.Save(ctx, settings)
}

// ToggleCategory 翻转类目开关并立即落库
// 级联语义在 model 层实现 (开启时重置该类目所有位置为 true)
func (s *SettingsService) ToggleCategory(ctx context.Context, storeID, category string) (*model.RecommendationSettings, error) {
	settings, err := s.Load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err = settings.ToggleCategory(category); err != nil {
		return nil, err
	}
	if err = s.SettingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ToggleLocation 翻转单个位置并立即落库，永不触碰总开关
func (s *SettingsService) ToggleLocation(ctx context.Context, storeID, category, location string) (*model.RecommendationSettings, error) {
	settings, err := s.Load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err = settings.ToggleLocation(category, location); err != nil {
		return nil, err
	}
	if err = s.SettingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// validateSettings 保存前的基础校验
// 位置集合是闭集，结构体本身已保证；这里只防 nil
func validateSettings(settings *model.RecommendationSettings) error {
	if settings == nil {
		return fmt.Errorf("settings 不能为空")
	}
	return nil
}
