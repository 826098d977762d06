package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/service"
)

// OAuthController 授权控制器
type OAuthController struct {
	authSvc *service.AuthService
}

// NewOAuthController 创建授权控制器
func NewOAuthController(authSvc *service.AuthService) *OAuthController {
	return &OAuthController{authSvc: authSvc}
}

// ==================== Handler 实现 ====================

// GetAuthorizationURL 生成授权链接
// @Summary 生成 Ecwid 授权链接
// @Tags OAuth
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "缺少店铺 ID"
// @Router /api/oauth/auth/{storeId} [get]
func (c *OAuthController) GetAuthorizationURL(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	authURL, err := c.authSvc.GenerateAuthorizationURL(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"authUrl": authURL, "storeId": storeID})
}

// Callback 平台授权回调
// 无论成败都 302 回管理页，结果塞在查询参数里
// @Summary Ecwid 授权回调
// @Tags OAuth
// @Param code query string true "授权码"
// @Param state query string true "授权 State"
// @Success 302
// @Router /api/oauth/callback [get]
func (c *OAuthController) Callback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")

	redirect := c.authSvc.HandleCallback(ctx.Request.Context(), code, state)
	ctx.Redirect(http.StatusFound, redirect)
}

// GetStatus 查询授权状态
// @Summary 查询店铺授权状态
// @Tags OAuth
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/oauth/status/{storeId} [get]
func (c *OAuthController) GetStatus(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	status, err := c.authSvc.GetStatus(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"authenticated": status.Authenticated,
		"store":         status.Store,
	})
}
