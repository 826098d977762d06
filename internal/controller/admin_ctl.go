package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/service"
)

// AdminController 运维账号控制器
type AdminController struct {
	adminSvc *service.AdminService
}

// NewAdminController 创建运维账号控制器
func NewAdminController(adminSvc *service.AdminService) *AdminController {
	return &AdminController{adminSvc: adminSvc}
}

// ==================== 请求体 ====================

// LoginReq 登录请求
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenReq 刷新 Token 请求
type RefreshTokenReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// failAuth 登录相关错误 -> HTTP 状态码
func failAuth(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		fail(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		fail(ctx, http.StatusForbidden, err.Error())
	default:
		fail(ctx, http.StatusInternalServerError, err.Error())
	}
}

// ==================== Handler 实现 ====================

// Login 运维账号登录
// @Summary 运维后台登录
// @Tags Admin
// @Param body body LoginReq true "账号密码"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "账号或密码错误"
// @Router /api/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	result, err := c.adminSvc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		failAuth(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"expiresAt":    result.ExpiresAt,
		"admin":        result.Admin,
	})
}

// RefreshToken 刷新登录态
// @Summary 刷新运维后台 Token
// @Tags Admin
// @Param body body RefreshTokenReq true "Refresh Token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Token 无效"
// @Router /api/admin/refresh-token [post]
func (c *AdminController) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	result, err := c.adminSvc.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		failAuth(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"expiresAt":    result.ExpiresAt,
	})
}

// ChangePassword 修改当前账号密码
// @Summary 修改运维账号密码
// @Tags Admin
// @Security BearerAuth
// @Param body body ChangePasswordReq true "新旧密码"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "旧密码错误"
// @Router /api/admin/change-password [post]
func (c *AdminController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	adminID := middleware.GetAdminID(ctx)
	if err := c.adminSvc.ChangePassword(ctx.Request.Context(), adminID, req.OldPassword, req.NewPassword); err != nil {
		failAuth(ctx, err)
		return
	}

	ok(ctx, gin.H{"message": "密码已修改"})
}
