package controller

import (
	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/service"
)

// SyncController 同步控制器
type SyncController struct {
	syncSvc *service.SyncService
}

// NewSyncController 创建同步控制器
func NewSyncController(syncSvc *service.SyncService) *SyncController {
	return &SyncController{syncSvc: syncSvc}
}

// ==================== Handler 实现 ====================

// GetStatus 查询同步状态
// @Summary 查询店铺镜像同步状态
// @Tags Sync
// @Param storeId path string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sync/status/{storeId} [get]
func (c *SyncController) GetStatus(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	status, err := c.syncSvc.GetStatus(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"syncStatus": status})
}

// Trigger 手动触发一次全量镜像
// @Summary 手动触发店铺目录同步
// @Tags Sync
// @Param storeId query string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "同步已在进行中"
// @Failure 429 {object} map[string]interface{} "限流中"
// @Router /api/sync/trigger [post]
func (c *SyncController) Trigger(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	if err := c.syncSvc.Trigger(ctx.Request.Context(), storeID); err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"message": "同步已触发", "storeId": storeID})
}

// EnsureSynced 首次加载检查
// 未镜像则触发一次同步并安排一次延迟复查，立即返回当前状态
// @Summary 确保店铺已镜像 (管理页首次加载调用)
// @Tags Sync
// @Param storeId query string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sync/ensure [post]
func (c *SyncController) EnsureSynced(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	status, err := c.syncSvc.EnsureSynced(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"syncStatus": status})
}
