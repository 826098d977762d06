package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// ==================== 测试辅助 ====================

func setupSettingsRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Store{}, &model.RecommendationSettings{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	storeRepo := repository.NewStoreRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	authSvc := service.NewAuthService(storeRepo, nil, "https://example.com/admin")
	settingsSvc := service.NewSettingsService(settingsRepo, authSvc)
	ctl := NewSettingsController(settingsSvc)

	r := gin.New()
	group := r.Group("/api/ecwid/recommendation-settings/:storeId")
	group.GET("", ctl.GetSettings)
	group.POST("", ctl.SaveSettings)
	group.POST("/toggle-category", ctl.ToggleCategory)
	group.POST("/toggle-location", ctl.ToggleLocation)
	return r, db
}

func seedAuthedStore(db *gorm.DB, storeID string) {
	db.Create(&model.Store{
		EcwidStoreID:   storeID,
		Status:         model.StoreStatusActive,
		TokenStatus:    model.TokenStatusValid,
		AccessToken:    "secret_token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	})
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 单元测试 ====================

func TestGetSettings_UnauthenticatedReturns401(t *testing.T) {
	r, _ := setupSettingsRouter(t)

	w := doJSON(r, http.MethodGet, "/api/ecwid/recommendation-settings/10001", nil)

	// 授权缺失的契约：401 + error 文案含 "OAuth setup"
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("应返回 401，实际: %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp["success"] != false {
		t.Fatal("success 应为 false")
	}
	if resp["error"] != "OAuth setup required" {
		t.Fatalf("error 文案不符: %v", resp["error"])
	}
}

func TestGetSettings_DefaultsAllOff(t *testing.T) {
	r, db := setupSettingsRouter(t)
	seedAuthedStore(db, "10001")

	w := doJSON(r, http.MethodGet, "/api/ecwid/recommendation-settings/10001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200，实际: %d, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success  bool                          `json:"success"`
		Settings *model.RecommendationSettings `json:"settings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if !resp.Success {
		t.Fatal("success 应为 true")
	}
	if resp.Settings.ShowUpsells || resp.Settings.ShowCrossSells || resp.Settings.ShowRecommendations {
		t.Fatal("首次加载应为全关闭默认值")
	}
}

func TestToggleCategory_Endpoint(t *testing.T) {
	r, db := setupSettingsRouter(t)
	seedAuthedStore(db, "10001")

	w := doJSON(r, http.MethodPost, "/api/ecwid/recommendation-settings/10001/toggle-category",
		ToggleCategoryReq{Category: model.CategoryUpsells})
	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200，实际: %d, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Settings *model.RecommendationSettings `json:"settings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if !resp.Settings.ShowUpsells {
		t.Fatal("类目应已开启")
	}
	if !resp.Settings.UpsellLocations.ProductPage || !resp.Settings.UpsellLocations.CartPage {
		t.Fatal("开启应级联重置全部位置")
	}
}

func TestToggleLocation_Endpoint(t *testing.T) {
	r, db := setupSettingsRouter(t)
	seedAuthedStore(db, "10001")

	w := doJSON(r, http.MethodPost, "/api/ecwid/recommendation-settings/10001/toggle-location",
		ToggleLocationReq{Category: model.CategoryRecommendations, Location: model.LocationThankYouPage})
	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200，实际: %d, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Settings *model.RecommendationSettings `json:"settings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	// 位置翻转不应打开类目总开关
	if resp.Settings.ShowRecommendations {
		t.Fatal("位置翻转不应打开总开关")
	}
	if !resp.Settings.RecommendationLocations.ThankYouPage {
		t.Fatal("位置应已翻转")
	}
}

func TestGetSettings_PathParamBeatsQueryParam(t *testing.T) {
	r, db := setupSettingsRouter(t)
	seedAuthedStore(db, "111")

	// 路径和查询参数给了不同店铺时以路径为准：111 已授权应 200，
	// 若错用查询参数里的 222 (未接入) 会落到 401
	w := doJSON(r, http.MethodGet, "/api/ecwid/recommendation-settings/111?store_id=222", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("应按路径参数操作店铺 111，实际: %d, body: %s", w.Code, w.Body.String())
	}
}

func TestToggleCategory_BadRequestBody(t *testing.T) {
	r, db := setupSettingsRouter(t)
	seedAuthedStore(db, "10001")

	w := doJSON(r, http.MethodPost, "/api/ecwid/recommendation-settings/10001/toggle-category",
		map[string]string{"not_category": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺失必填字段应返回 400，实际: %d", w.Code)
	}
}
