package service

import (
	"context"
	"testing"
	"time"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// ==================== 测试辅助 ====================

// newAuthedStore 造一个持有效 Token 的店铺
func newAuthedStore(storeID string) *model.Store {
	return &model.Store{
		EcwidStoreID:   storeID,
		Status:         model.StoreStatusActive,
		TokenStatus:    model.TokenStatusValid,
		AccessToken:    "secret_token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}
}

func newSettingsService(t *testing.T) (*SettingsService, *model.Store) {
	db := setupSyncTestDB(t)
	storeRepo := repository.NewStoreRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	store := newAuthedStore("10001")
	db.Create(store)

	authSvc := NewAuthService(storeRepo, nil, "https://example.com/admin")
	return NewSettingsService(settingsRepo, authSvc), store
}

// ==================== 单元测试 ====================

func TestSettingsLoad_RequiresAuth(t *testing.T) {
	db := setupSyncTestDB(t)
	storeRepo := repository.NewStoreRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 未授权店铺：有记录但 Token 失效
	db.Create(&model.Store{
		EcwidStoreID: "20002",
		Status:       model.StoreStatusPending,
		TokenStatus:  model.TokenStatusInvalid,
	})

	authSvc := NewAuthService(storeRepo, nil, "https://example.com/admin")
	svc := NewSettingsService(settingsRepo, authSvc)

	if _, err := svc.Load(context.Background(), "20002"); err != ErrOAuthSetupRequired {
		t.Fatalf("未授权应返回 ErrOAuthSetupRequired，实际: %v", err)
	}
	// 完全不存在的店铺同样归到授权缺失
	if _, err := svc.Load(context.Background(), "99999"); err != ErrOAuthSetupRequired {
		t.Fatalf("未知店铺应返回 ErrOAuthSetupRequired，实际: %v", err)
	}
	if _, err := svc.Load(context.Background(), ""); err != ErrMissingStoreID {
		t.Fatalf("空店铺 ID 应返回 ErrMissingStoreID，实际: %v", err)
	}
}

func TestSettingsLoad_DefaultsWhenMissing(t *testing.T) {
	svc, _ := newSettingsService(t)

	settings, err := svc.Load(context.Background(), "10001")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	// 无记录返回全 false 默认值，且不落库
	if settings.ShowUpsells || settings.ShowCrossSells || settings.ShowRecommendations {
		t.Fatal("首次加载应返回全关闭默认值")
	}
	if settings.ID != 0 {
		t.Fatal("默认值不应已持久化")
	}
}

func TestToggleCategory_PersistsCascade(t *testing.T) {
	svc, _ := newSettingsService(t)
	ctx := context.Background()

	// 开启：级联所有位置
	settings, err := svc.ToggleCategory(ctx, "10001", model.CategoryUpsells)
	if err != nil {
		t.Fatalf("ToggleCategory 失败: %v", err)
	}
	if !settings.ShowUpsells || !settings.UpsellLocations.ProductPage || !settings.UpsellLocations.CartPage {
		t.Fatalf("开启应级联全部位置，实际: %+v", settings)
	}

	// 改掉一个位置再关闭类目：明细保留
	if _, err = svc.ToggleLocation(ctx, "10001", model.CategoryUpsells, model.LocationCartPage); err != nil {
		t.Fatalf("ToggleLocation 失败: %v", err)
	}
	if _, err = svc.ToggleCategory(ctx, "10001", model.CategoryUpsells); err != nil {
		t.Fatalf("ToggleCategory 失败: %v", err)
	}

	// 重新加载验证持久化
	reloaded, err := svc.Load(ctx, "10001")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if reloaded.ShowUpsells {
		t.Fatal("类目应已关闭")
	}
	if !reloaded.UpsellLocations.ProductPage || reloaded.UpsellLocations.CartPage {
		t.Fatalf("关闭后位置明细应保留，实际: %+v", reloaded.UpsellLocations)
	}
}

func TestSettingsSave_LastWriterWins(t *testing.T) {
	svc, _ := newSettingsService(t)
	ctx := context.Background()

	first := model.DefaultSettings("10001")
	first.ShowUpsells = true
	if err := svc.Save(ctx, "10001", first); err != nil {
		t.Fatalf("第一次保存失败: %v", err)
	}

	second := model.DefaultSettings("10001")
	second.ShowRecommendations = true
	if err := svc.Save(ctx, "10001", second); err != nil {
		t.Fatalf("第二次保存失败: %v", err)
	}

	reloaded, err := svc.Load(ctx, "10001")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	// 整对象覆盖：后写者胜
	if reloaded.ShowUpsells {
		t.Fatal("第二次保存应覆盖第一次的 ShowUpsells")
	}
	if !reloaded.ShowRecommendations {
		t.Fatal("第二次保存的 ShowRecommendations 应生效")
	}
}
