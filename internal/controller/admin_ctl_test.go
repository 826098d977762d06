package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// ==================== 测试辅助 ====================

func setupAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.AdminUser{}, &model.Store{}, &model.RecommendationSettings{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	adminSvc := service.NewAdminService(repository.NewAdminRepository(db))
	adminCtl := NewAdminController(adminSvc)
	storeCtl := NewStoreController(repository.NewStoreRepository(db), nil)

	r := gin.New()
	r.POST("/api/admin/login", adminCtl.Login)
	r.POST("/api/admin/refresh-token", adminCtl.RefreshToken)

	stores := r.Group("/api/stores", middleware.JWTAuth(), middleware.AuditContext())
	stores.GET("", storeCtl.ListStores)
	stores.DELETE("/:storeId", middleware.RequireRole(model.AdminRoleAdmin), storeCtl.DeleteStore)
	return r, db
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password, role string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("密码哈希失败: %v", err)
	}
	db.Create(&model.AdminUser{
		Username: username,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	})
}

func loginToken(t *testing.T, r *gin.Engine, username, password string) string {
	w := doJSON(r, http.MethodPost, "/api/admin/login",
		LoginReq{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("登录应成功，实际: %d, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("accessToken 不应为空")
	}
	return resp.AccessToken
}

func doAuthed(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 单元测试 ====================

func TestAdminLogin_WrongPassword(t *testing.T) {
	r, db := setupAdminRouter(t)
	seedAdmin(t, db, "ops", "correct-horse", model.AdminRoleOperator)

	w := doJSON(r, http.MethodPost, "/api/admin/login",
		LoginReq{Username: "ops", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("密码错误应返回 401，实际: %d", w.Code)
	}

	// 不存在的用户名同样 401，不暴露账号是否存在
	w = doJSON(r, http.MethodPost, "/api/admin/login",
		LoginReq{Username: "nobody", Password: "whatever"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("未知用户应返回 401，实际: %d", w.Code)
	}
}

func TestStoresEndpoint_RequiresToken(t *testing.T) {
	r, _ := setupAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("无 Token 应返回 401，实际: %d", w.Code)
	}
}

func TestStoresEndpoint_LoginGrantsAccess(t *testing.T) {
	r, db := setupAdminRouter(t)
	seedAdmin(t, db, "ops", "correct-horse", model.AdminRoleOperator)

	token := loginToken(t, r, "ops", "correct-horse")

	w := doAuthed(r, http.MethodGet, "/api/stores", token)
	if w.Code != http.StatusOK {
		t.Fatalf("持 Token 应返回 200，实际: %d, body: %s", w.Code, w.Body.String())
	}
}

func TestDeleteStore_OperatorForbidden(t *testing.T) {
	r, db := setupAdminRouter(t)
	seedAdmin(t, db, "ops", "correct-horse", model.AdminRoleOperator)
	seedAdmin(t, db, "boss", "correct-horse", model.AdminRoleAdmin)
	db.Create(&model.Store{EcwidStoreID: "10001"})

	opsToken := loginToken(t, r, "ops", "correct-horse")
	w := doAuthed(r, http.MethodDelete, "/api/stores/10001", opsToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("operator 删除应返回 403，实际: %d", w.Code)
	}

	bossToken := loginToken(t, r, "boss", "correct-horse")
	w = doAuthed(r, http.MethodDelete, "/api/stores/10001", bossToken)
	if w.Code != http.StatusOK {
		t.Fatalf("admin 删除应返回 200，实际: %d, body: %s", w.Code, w.Body.String())
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	r, db := setupAdminRouter(t)
	seedAdmin(t, db, "ops", "correct-horse", model.AdminRoleOperator)

	// Access Token 不能走刷新口
	accessToken := loginToken(t, r, "ops", "correct-horse")
	w := doJSON(r, http.MethodPost, "/api/admin/refresh-token",
		RefreshTokenReq{RefreshToken: accessToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Access Token 刷新应返回 401，实际: %d", w.Code)
	}
}
