package ecwid

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// 平台固定端点
const (
	DefaultAPIBase      = "https://app.ecwid.com/api/v3"
	DefaultAuthorizeURL = "https://my.ecwid.com/api/oauth/authorize"
	DefaultTokenURL     = "https://my.ecwid.com/api/oauth/token"

	pageLimit = 100
)

// ==================== 错误分类 ====================

// APIError 平台明确拒绝 (HTTP 层已通，业务层失败)
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ecwid api error: status %d, body: %s", e.StatusCode, e.Body)
}

// ==================== 客户端 ====================

// Config 客户端配置
type Config struct {
	ClientID     string // 应用 client_id
	ClientSecret string // 应用 client_secret
	RedirectURL  string // 必须与 Ecwid 后台填写的完全一致
	APIBase      string
	AuthorizeURL string
	TokenURL     string
}

// Client Ecwid REST API 客户端
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	// 设置超时和重试，防止网络波动
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{cfg: cfg, http: client}
}

// BuildAuthorizeURL 拼接授权页 URL
// scope 固定申请商品/分类/订单读 + 应用配置读写
func (c *Client) BuildAuthorizeURL(state string) string {
	scopes := "read_store_profile read_catalog read_orders update_catalog"
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", scopes)
	q.Set("state", state)
	return c.cfg.AuthorizeURL + "?" + q.Encode()
}

// ExchangeToken 授权码换 Token
func (c *Client) ExchangeToken(ctx context.Context, code string) (*TokenResp, error) {
	var tokenResp TokenResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"code":          code,
			"redirect_uri":  c.cfg.RedirectURL,
			"grant_type":    "authorization_code",
		}).
		SetResult(&tokenResp).
		Post(c.cfg.TokenURL)
	if err != nil {
		// 网络层错误
		return nil, fmt.Errorf("token exchange network error: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if tokenResp.Error != "" {
		return nil, fmt.Errorf("token exchange refused: %s (%s)", tokenResp.Error, tokenResp.ErrorDesc)
	}
	return &tokenResp, nil
}

// RefreshToken 刷新 Token
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResp, error) {
	var tokenResp TokenResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"refresh_token": refreshToken,
			"grant_type":    "refresh_token",
		}).
		SetResult(&tokenResp).
		Post(c.cfg.TokenURL)
	if err != nil {
		return nil, fmt.Errorf("token refresh network error: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &tokenResp, nil
}

// ==================== 数据拉取 ====================

// GetProfile 拉取店铺概要
func (c *Client) GetProfile(ctx context.Context, storeID, accessToken string) (*ProfileResp, error) {
	var profile ProfileResp
	if err := c.get(ctx, storeID, accessToken, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListAllProducts 分页拉全量商品
func (c *Client) ListAllProducts(ctx context.Context, storeID, accessToken string) ([]ProductDTO, error) {
	var all []ProductDTO
	offset := 0
	for {
		var page ProductsResp
		params := map[string]string{
			"offset": strconv.Itoa(offset),
			"limit":  strconv.Itoa(pageLimit),
		}
		if err := c.get(ctx, storeID, accessToken, "/products", params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		offset += page.Count
		if page.Count == 0 || offset >= page.Total {
			return all, nil
		}
	}
}

// ListAllCategories 分页拉全量分类
func (c *Client) ListAllCategories(ctx context.Context, storeID, accessToken string) ([]CategoryDTO, error) {
	var all []CategoryDTO
	offset := 0
	for {
		var page CategoriesResp
		params := map[string]string{
			"offset": strconv.Itoa(offset),
			"limit":  strconv.Itoa(pageLimit),
		}
		if err := c.get(ctx, storeID, accessToken, "/categories", params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		offset += page.Count
		if page.Count == 0 || offset >= page.Total {
			return all, nil
		}
	}
}

// ListOrders 分页拉订单 (限制页数，报表镜像不追求完备历史)
func (c *Client) ListOrders(ctx context.Context, storeID, accessToken string, maxPages int) ([]OrderDTO, error) {
	var all []OrderDTO
	offset := 0
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		var resp OrdersResp
		params := map[string]string{
			"offset": strconv.Itoa(offset),
			"limit":  strconv.Itoa(pageLimit),
		}
		if err := c.get(ctx, storeID, accessToken, "/orders", params, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Items...)
		offset += resp.Count
		if resp.Count == 0 || offset >= resp.Total {
			break
		}
	}
	return all, nil
}

// get 统一 GET 封装
func (c *Client) get(ctx context.Context, storeID, accessToken, path string, params map[string]string, out interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(out)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(c.cfg.APIBase + "/" + storeID + path)
	if err != nil {
		return fmt.Errorf("ecwid network error: %w", err)
	}
	if resp.StatusCode() != 200 {
		return &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
