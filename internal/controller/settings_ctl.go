package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/service"
)

// SettingsController 推荐设置控制器
type SettingsController struct {
	settingsSvc *service.SettingsService
}

// NewSettingsController 创建推荐设置控制器
func NewSettingsController(settingsSvc *service.SettingsService) *SettingsController {
	return &SettingsController{settingsSvc: settingsSvc}
}

// ==================== 请求体 ====================

// ToggleCategoryReq 类目开关请求
type ToggleCategoryReq struct {
	Category string `json:"category" binding:"required"`
}

// ToggleLocationReq 位置开关请求
type ToggleLocationReq struct {
	Category string `json:"category" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// ==================== Handler 实现 ====================

// GetSettings 加载推荐设置
// @Summary 加载店铺推荐设置
// @Tags Settings
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "未授权，需先完成 OAuth"
// @Router /api/ecwid/recommendation-settings/{storeId} [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	settings, err := c.settingsSvc.Load(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"settings": settings})
}

// SaveSettings 整对象保存推荐设置
// @Summary 保存店铺推荐设置 (整对象覆盖，后写者胜)
// @Tags Settings
// @Param storeId path string true "Ecwid 店铺 ID"
// @Param settings body model.RecommendationSettings true "推荐设置"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "未授权，需先完成 OAuth"
// @Router /api/ecwid/recommendation-settings/{storeId} [post]
func (c *SettingsController) SaveSettings(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	var settings model.RecommendationSettings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	if err := c.settingsSvc.Save(ctx.Request.Context(), storeID, &settings); err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"settings": settings})
}

// ToggleCategory 翻转类目总开关
// 关->开 会级联把该类目所有位置重置为 true；开->关 保留位置明细
// @Summary 翻转类目开关
// @Tags Settings
// @Param storeId path string true "Ecwid 店铺 ID"
// @Param body body ToggleCategoryReq true "类目"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "未授权，需先完成 OAuth"
// @Router /api/ecwid/recommendation-settings/{storeId}/toggle-category [post]
func (c *SettingsController) ToggleCategory(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	var req ToggleCategoryReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	settings, err := c.settingsSvc.ToggleCategory(ctx.Request.Context(), storeID, req.Category)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"settings": settings})
}

// ToggleLocation 翻转单个位置开关 (永不触碰类目总开关)
// @Summary 翻转位置开关
// @Tags Settings
// @Param storeId path string true "Ecwid 店铺 ID"
// @Param body body ToggleLocationReq true "类目 + 位置"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "未授权，需先完成 OAuth"
// @Router /api/ecwid/recommendation-settings/{storeId}/toggle-location [post]
func (c *SettingsController) ToggleLocation(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	var req ToggleLocationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	settings, err := c.settingsSvc.ToggleLocation(ctx.Request.Context(), storeID, req.Category, req.Location)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"settings": settings})
}
