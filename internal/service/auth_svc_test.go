package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/pkg/ecwid"
)

// ==================== 测试辅助 ====================

// newTokenServer 起一个假的平台 OAuth 端点
// 按请求里的 grant_type 返回固定响应
func newTokenServer(t *testing.T, status int, resp map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v3/") {
			// 店铺概要等 REST 调用一律 404，授权流程不依赖它
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newAuthServiceWithServer(t *testing.T, srv *httptest.Server) (*AuthService, repository.StoreRepository) {
	db := setupSyncTestDB(t)
	storeRepo := repository.NewStoreRepository(db)

	client := ecwid.NewClient(ecwid.Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "https://addon.example.com/api/oauth/callback",
		APIBase:      srv.URL + "/api/v3",
		TokenURL:     srv.URL + "/api/oauth/token",
	})

	return NewAuthService(storeRepo, client, "https://addon.example.com/admin"), storeRepo
}

// ==================== 单元测试 ====================

func TestGenerateAuthorizationURL(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, nil)
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	// 空店铺 ID 直接失败
	if _, err := svc.GenerateAuthorizationURL(ctx, ""); err != ErrMissingStoreID {
		t.Fatalf("空店铺 ID 应返回 ErrMissingStoreID，实际: %v", err)
	}

	authURL, err := svc.GenerateAuthorizationURL(ctx, "10001")
	if err != nil {
		t.Fatalf("生成授权链接失败: %v", err)
	}
	if !strings.Contains(authURL, "client_id=client-1") || !strings.Contains(authURL, "state=") {
		t.Fatalf("授权链接缺少必要参数: %s", authURL)
	}

	// 初次授权应预建待授权记录
	store, err := storeRepo.GetByEcwidStoreID(ctx, "10001")
	if err != nil {
		t.Fatalf("待授权店铺未预建: %v", err)
	}
	if store.Status != model.StoreStatusPending {
		t.Fatalf("预建店铺状态应为 pending，实际: %v", store.Status)
	}
}

func TestHandleCallback_Success(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, map[string]interface{}{
		"access_token": "new_access_token",
		"token_type":   "Bearer",
		"scope":        "read_store_profile read_catalog",
		"store_id":     10001,
	})
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	authURL, err := svc.GenerateAuthorizationURL(ctx, "10001")
	if err != nil {
		t.Fatalf("生成授权链接失败: %v", err)
	}
	// 从授权链接里抠出 state
	state := authURL[strings.Index(authURL, "state=")+len("state="):]
	if i := strings.Index(state, "&"); i >= 0 {
		state = state[:i]
	}

	redirect := svc.HandleCallback(ctx, "auth_code_1", state)
	if !strings.Contains(redirect, "success=oauth_complete") {
		t.Fatalf("回调成功应跳转 success，实际: %s", redirect)
	}
	if !strings.Contains(redirect, "storeId=10001") {
		t.Fatalf("跳转应携带 storeId，实际: %s", redirect)
	}

	store, err := storeRepo.GetByEcwidStoreID(ctx, "10001")
	if err != nil {
		t.Fatalf("查询店铺失败: %v", err)
	}
	if store.AccessToken != "new_access_token" {
		t.Fatalf("Token 未入库: %s", store.AccessToken)
	}
	if !store.Authenticated() {
		t.Fatal("授权完成后店铺应为已认证")
	}
	// 平台未声明过期时间：按长期有效兜底
	if time.Until(store.TokenExpiresAt) < 300*24*time.Hour {
		t.Fatalf("未声明过期时间应兜底一年，实际: %v", store.TokenExpiresAt)
	}
}

func TestHandleCallback_InvalidState(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, nil)
	defer srv.Close()
	svc, _ := newAuthServiceWithServer(t, srv)

	redirect := svc.HandleCallback(context.Background(), "auth_code_1", "bogus_state")
	if !strings.Contains(redirect, "error=") {
		t.Fatalf("State 无效应跳转 error，实际: %s", redirect)
	}
}

func TestRefreshAccessToken_DeniedMarksInvalid(t *testing.T) {
	// 平台明确拒绝 (400)：标记失效
	srv := newTokenServer(t, http.StatusBadRequest, map[string]interface{}{
		"error": "invalid_grant",
	})
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	store := newAuthedStore("10001")
	store.RefreshToken = "stale_refresh"
	if err := storeRepo.Create(ctx, store); err != nil {
		t.Fatalf("造数失败: %v", err)
	}

	err := svc.RefreshAccessToken(ctx, store)
	if err == nil {
		t.Fatal("平台拒绝应返回错误")
	}
	var apiErr *ecwid.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("应为平台业务错误，实际: %v", err)
	}

	reloaded, _ := storeRepo.GetByEcwidStoreID(ctx, "10001")
	if reloaded.TokenStatus != model.TokenStatusInvalid {
		t.Fatalf("拒绝后 Token 状态应为失效，实际: %s", reloaded.TokenStatus)
	}
}

func TestRefreshAccessToken_NoRefreshTokenIsNoop(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, nil)
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	// 平台未发 refresh_token 的长效授权
	store := newAuthedStore("10001")
	store.RefreshToken = ""
	if err := storeRepo.Create(ctx, store); err != nil {
		t.Fatalf("造数失败: %v", err)
	}

	if err := svc.RefreshAccessToken(ctx, store); err != nil {
		t.Fatalf("无 refresh_token 应为空操作: %v", err)
	}

	reloaded, _ := storeRepo.GetByEcwidStoreID(ctx, "10001")
	if reloaded.TokenStatus != model.TokenStatusValid {
		t.Fatal("空操作不应改变 Token 状态")
	}
}

func TestRefreshAccessToken_Success(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, map[string]interface{}{
		"access_token":  "rotated_access",
		"refresh_token": "rotated_refresh",
		"expires_in":    3600,
	})
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	store := newAuthedStore("10001")
	store.RefreshToken = "old_refresh"
	if err := storeRepo.Create(ctx, store); err != nil {
		t.Fatalf("造数失败: %v", err)
	}

	if err := svc.RefreshAccessToken(ctx, store); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}

	reloaded, _ := storeRepo.GetByEcwidStoreID(ctx, "10001")
	if reloaded.AccessToken != "rotated_access" || reloaded.RefreshToken != "rotated_refresh" {
		t.Fatalf("轮换后的 Token 未入库: %+v", reloaded)
	}
}

func TestGetStatus(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK, nil)
	defer srv.Close()
	svc, storeRepo := newAuthServiceWithServer(t, srv)
	ctx := context.Background()

	// 未知店铺：authenticated=false，不报错
	status, err := svc.GetStatus(ctx, "99999")
	if err != nil {
		t.Fatalf("未知店铺不应报错: %v", err)
	}
	if status.Authenticated || status.Store != nil {
		t.Fatal("未知店铺应为未认证且无概要")
	}

	// 已授权店铺
	store := newAuthedStore("10001")
	store.StoreName = "Demo Store"
	_ = storeRepo.Create(ctx, store)

	status, err = svc.GetStatus(ctx, "10001")
	if err != nil {
		t.Fatalf("GetStatus 失败: %v", err)
	}
	if !status.Authenticated || status.Store == nil || status.Store.StoreName != "Demo Store" {
		t.Fatalf("已授权店铺状态不符: %+v", status)
	}
}
