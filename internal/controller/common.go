package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/service"
)

// ==================== 响应封装 ====================

// 管理页/挂件的统一响应格式：{"success": bool, ...}
// 成功时业务数据平铺在顶层，失败时只带 error 字符串

// ok 成功响应，fields 平铺进顶层
func ok(ctx *gin.Context, fields gin.H) {
	resp := gin.H{"success": true}
	for k, v := range fields {
		resp[k] = v
	}
	ctx.JSON(http.StatusOK, resp)
}

// fail 失败响应
func fail(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, gin.H{"success": false, "error": msg})
}

// failErr 业务错误 -> HTTP 状态码映射
// 授权缺失统一 401 + "OAuth setup required"，前端靠这个组合弹授权引导
func failErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOAuthSetupRequired):
		fail(ctx, http.StatusUnauthorized, service.ErrOAuthSetupRequired.Error())
	case errors.Is(err, service.ErrMissingStoreID):
		fail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStoreNotFound):
		fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSyncAlreadyRunning):
		fail(ctx, http.StatusConflict, err.Error())
	default:
		fail(ctx, http.StatusInternalServerError, err.Error())
	}
}

// ==================== 参数提取 ====================

// storeIDFrom 从请求取店铺 ID
// 路由声明了 :storeId 路径参数的，以路径为准，查询参数只做无路径路由的兜底
func storeIDFrom(ctx *gin.Context) string {
	if id := ctx.Param("storeId"); id != "" {
		return id
	}
	for _, name := range []string{"storeId", "ecwid_store_id", "store_id"} {
		if id := ctx.Query(name); id != "" {
			return id
		}
	}
	return ""
}

// parseInt64 解析 int64 参数，缺失或非法返回 0
func parseInt64(raw string) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// pagination 解析分页参数 (默认 1 页 20 条)
func pagination(ctx *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
