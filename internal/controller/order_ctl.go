package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/repository"
)

// OrderController 订单镜像控制器
type OrderController struct {
	orderRepo repository.OrderRepository
}

// NewOrderController 创建订单控制器
func NewOrderController(orderRepo repository.OrderRepository) *OrderController {
	return &OrderController{orderRepo: orderRepo}
}

// ==================== Handler 实现 ====================

// ListOrders 订单列表
// @Summary 分页查询镜像订单
// @Tags Orders
// @Param storeId query string true "Ecwid 店铺 ID"
// @Param paymentStatus query string false "支付状态 (PAID/AWAITING_PAYMENT 等)"
// @Param days query int false "仅最近 N 天"
// @Param page query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} map[string]interface{}
// @Router /api/orders [get]
func (c *OrderController) ListOrders(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)
	if storeID == "" {
		fail(ctx, http.StatusBadRequest, "缺少 storeId")
		return
	}

	page, pageSize := pagination(ctx)
	filter := repository.OrderFilter{
		StoreID:       storeID,
		PaymentStatus: ctx.Query("paymentStatus"),
		Page:          page,
		PageSize:      pageSize,
	}
	if days := parseInt64(ctx.Query("days")); days > 0 {
		since := time.Now().AddDate(0, 0, -int(days))
		filter.Since = &since
	}

	orders, total, err := c.orderRepo.List(ctx.Request.Context(), filter)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"orders":   orders,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetOrder 订单详情
// @Summary 按 Ecwid 订单号查询镜像订单
// @Tags Orders
// @Param id path string true "Ecwid 订单号"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/orders/{id} [get]
func (c *OrderController) GetOrder(ctx *gin.Context) {
	order, err := c.orderRepo.GetByEcwidOrderID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, http.StatusNotFound, "订单不存在")
		return
	}

	ok(ctx, gin.H{"order": order})
}
