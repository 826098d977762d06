package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/pkg/ecwid"
	"ecwid_addon_v1_202609/pkg/utils"
)

// AuthService 授权服务
// 负责授权链接生成、回调换 Token、状态查询与 Token 刷新
type AuthService struct {
	StoreRepo repository.StoreRepository
	client    *ecwid.Client

	// 授权完成后跳回的管理页地址
	adminReturnURL string
}

// NewAuthService 工厂方法
func NewAuthService(storeRepo repository.StoreRepository, client *ecwid.Client, adminReturnURL string) *AuthService {
	return &AuthService{
		StoreRepo:      storeRepo,
		client:         client,
		adminReturnURL: adminReturnURL,
	}
}

// AuthStatus 授权状态视图
type AuthStatus struct {
	Authenticated bool                `json:"authenticated"`
	Store         *model.StoreProfile `json:"store"`
}

// GenerateAuthorizationURL 生成授权链接
// storeID 为空直接失败，调用方应提示用户手动输入店铺 ID
// 初次授权的店铺会在本地预建一条待授权记录
func (s *AuthService) GenerateAuthorizationURL(ctx context.Context, storeID string) (string, error) {
	if storeID == "" {
		return "", ErrMissingStoreID
	}

	// 1. 查店铺，没有则预建待授权记录
	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		store = &model.Store{
			EcwidStoreID: storeID,
			Status:       model.StoreStatusPending,
			TokenStatus:  model.TokenStatusInvalid,
		}
		if err = s.StoreRepo.Create(ctx, store); err != nil {
			return "", fmt.Errorf("预建店铺记录失败: %w", err)
		}
	} else if err != nil {
		return "", err
	}

	// 2. 生成 state 并缓存待授权 store_id
	// 跳转授权页会丢掉所有内存状态，回调时靠 state 找回
	state, err := utils.GenerateRandomString(16)
	if err != nil {
		return "", err
	}
	utils.SetCache(state, storeID)

	// 3. 拼接平台授权 URL
	return s.client.BuildAuthorizeURL(state), nil
}

// HandleCallback 处理平台回调 -> 换 Token
// 返回管理页跳转地址，成功带 ?success=oauth_complete，失败带 ?error=<msg>
// 消费方读完即从可见 URL 剥离这两个参数，避免刷新重放
func (s *AuthService) HandleCallback(ctx context.Context, code, state string) (redirect string) {
	store, err := s.completeCallback(ctx, code, state)
	if err != nil {
		log.Printf("[Auth] 授权回调失败: %v", err)
		return s.adminReturnURL + "?error=" + url.QueryEscape(err.Error())
	}

	log.Printf("[Auth] 店铺 [%s] 授权完成", store.EcwidStoreID)
	return s.adminReturnURL + "?success=oauth_complete&storeId=" + url.QueryEscape(store.EcwidStoreID)
}

func (s *AuthService) completeCallback(ctx context.Context, code, state string) (*model.Store, error) {
	// 1. 校验 State 取缓存
	storeID, exists := utils.GetCache(state)
	if !exists {
		return nil, fmt.Errorf("授权超时或 State 无效，请重新发起")
	}
	utils.DeleteCache(state)

	// 2. 查出待授权店铺
	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("店铺 %s 不存在: %w", storeID, err)
	}

	// 3. 授权码换 Token
	tokenResp, err := s.client.ExchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("换取 Token 失败: %w", err)
	}

	// 4. 更新数据
	store.AccessToken = tokenResp.AccessToken
	store.RefreshToken = tokenResp.RefreshToken
	store.TokenScopes = tokenResp.Scope
	store.TokenStatus = model.TokenStatusValid
	store.Status = model.StoreStatusActive
	if tokenResp.ExpiresIn > 0 {
		store.TokenExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	} else {
		// 平台未声明过期时间时按长期有效处理，留一年兜底
		store.TokenExpiresAt = time.Now().Add(365 * 24 * time.Hour)
	}

	// 5. 顺手镜像一份店铺概要，拿不到不阻塞授权
	if profile, perr := s.client.GetProfile(ctx, store.EcwidStoreID, store.AccessToken); perr == nil {
		store.StoreName = profile.Settings.StoreName
		store.StoreURL = profile.GeneralInfo.StoreURL
		store.AccountEmail = profile.Account.AccountEmail
		store.CurrencyCode = profile.FormatsAndUnits.Currency
	} else {
		log.Printf("[Auth] 店铺概要拉取失败 (不阻塞授权): %v", perr)
	}

	// 入库保存
	if err = s.StoreRepo.SaveOrUpdate(ctx, store); err != nil {
		return nil, fmt.Errorf("店铺入库失败: %w", err)
	}

	return store, nil
}

// GetStatus 查询授权状态
// 仅作参考值：各端点仍按 401 + "OAuth setup" 自行判定
func (s *AuthService) GetStatus(ctx context.Context, storeID string) (*AuthStatus, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}

	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AuthStatus{Authenticated: false, Store: nil}, nil
	}
	if err != nil {
		return nil, err
	}

	if !store.Authenticated() {
		return &AuthStatus{Authenticated: false, Store: store.Profile()}, nil
	}
	return &AuthStatus{Authenticated: true, Store: store.Profile()}, nil
}

// RequireAuthenticated 取出持有效授权的店铺
// 授权缺失/失效统一归到 ErrOAuthSetupRequired，供端点层转 401
func (s *AuthService) RequireAuthenticated(ctx context.Context, storeID string) (*model.Store, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}
	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOAuthSetupRequired
	}
	if err != nil {
		return nil, err
	}
	if !store.Authenticated() {
		return nil, ErrOAuthSetupRequired
	}
	return store, nil
}

// RefreshAccessToken 刷新 Token
func (s *AuthService) RefreshAccessToken(ctx context.Context, store *model.Store) error {
	if store.RefreshToken == "" {
		// 平台未发 refresh_token 的长效授权，无需刷新
		return nil
	}

	tokenResp, err := s.client.RefreshToken(ctx, store.RefreshToken)

	// A. 网络层错误：保留现状，等下轮重试
	var apiErr *ecwid.APIError
	if err != nil && !errors.As(err, &apiErr) {
		return fmt.Errorf("refresh network error: %w", err)
	}

	// B. 业务层错误 (平台明确拒绝)：标记失效，引导重新授权
	if err != nil {
		if uerr := s.StoreRepo.UpdateTokenStatus(ctx, store.ID, model.TokenStatusInvalid); uerr != nil {
			log.Printf("[Auth] 店铺 [%s] Token 状态更新失败: %v", store.EcwidStoreID, uerr)
		}
		return fmt.Errorf("refresh denied by platform: %w", err)
	}

	// C. 成功处理
	store.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		store.RefreshToken = tokenResp.RefreshToken
	}
	store.TokenStatus = model.TokenStatusValid
	if tokenResp.ExpiresIn > 0 {
		store.TokenExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	return s.StoreRepo.SaveOrUpdate(ctx, store)
}
