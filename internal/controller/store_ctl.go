package controller

import (
	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// StoreController 店铺控制器 (运维侧管理端点)
type StoreController struct {
	storeRepo repository.StoreRepository
	statsSvc  *service.StatsService
}

// NewStoreController 创建店铺控制器
func NewStoreController(storeRepo repository.StoreRepository, statsSvc *service.StatsService) *StoreController {
	return &StoreController{storeRepo: storeRepo, statsSvc: statsSvc}
}

// ==================== Handler 实现 ====================

// ListStores 店铺列表
// @Summary 分页查询已接入店铺
// @Tags Stores
// @Param page query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} map[string]interface{}
// @Router /api/stores [get]
func (c *StoreController) ListStores(ctx *gin.Context) {
	page, pageSize := pagination(ctx)

	stores, total, err := c.storeRepo.List(ctx.Request.Context(), page, pageSize)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"stores":   stores,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetStore 店铺详情
// @Summary 按 Ecwid 店铺 ID 查询店铺概要
// @Tags Stores
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/stores/{storeId} [get]
func (c *StoreController) GetStore(ctx *gin.Context) {
	store, err := c.storeRepo.GetByEcwidStoreID(ctx.Request.Context(), ctx.Param("storeId"))
	if err != nil {
		failErr(ctx, service.ErrStoreNotFound)
		return
	}

	ok(ctx, gin.H{"store": store.Profile(), "settings": store.Settings})
}

// GetStoreStats 店铺仪表盘数字
// @Summary 店铺聚合统计 (商品/分类/订单/埋点数)
// @Tags Stores
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/store-stats/{storeId} [get]
func (c *StoreController) GetStoreStats(ctx *gin.Context) {
	stats, err := c.statsSvc.GetStoreStats(ctx.Request.Context(), ctx.Param("storeId"))
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"stats": stats})
}

// DeleteStore 删除店铺接入
// @Summary 删除店铺 (软删，镜像数据保留)
// @Tags Stores
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/stores/{storeId} [delete]
func (c *StoreController) DeleteStore(ctx *gin.Context) {
	store, err := c.storeRepo.GetByEcwidStoreID(ctx.Request.Context(), ctx.Param("storeId"))
	if err != nil {
		failErr(ctx, service.ErrStoreNotFound)
		return
	}

	if err = c.storeRepo.Delete(ctx.Request.Context(), store.ID); err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"message": "店铺已删除", "storeId": store.EcwidStoreID})
}
