package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/service"
)

// AnalyticsController 埋点控制器
type AnalyticsController struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsController 创建埋点控制器
func NewAnalyticsController(analyticsSvc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsSvc: analyticsSvc}
}

// ==================== 请求体 ====================

// EventReq 单条埋点事件
type EventReq struct {
	EventType     string `json:"eventType" binding:"required"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	ProductID     int64  `json:"productId"`
	RecommendedID int64  `json:"recommendedId"`
	SessionID     string `json:"sessionId"`
}

// BatchEventsReq 批量埋点请求 (挂件侧攒批上报)
type BatchEventsReq struct {
	Events []EventReq `json:"events" binding:"required"`
}

func (r *EventReq) toModel(storeID string) model.AnalyticsEvent {
	return model.AnalyticsEvent{
		StoreID:       storeID,
		EventType:     r.EventType,
		Category:      r.Category,
		Location:      r.Location,
		ProductID:     r.ProductID,
		RecommendedID: r.RecommendedID,
		SessionID:     r.SessionID,
		OccurredAt:    time.Now(),
	}
}

// ==================== Handler 实现 ====================

// RecordEvent 记录单条事件
// @Summary 上报一条挂件埋点事件
// @Tags Analytics
// @Param storeId query string true "Ecwid 店铺 ID"
// @Param event body EventReq true "事件"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/events [post]
func (c *AnalyticsController) RecordEvent(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	var req EventReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	event := req.toModel(storeID)
	if err := c.analyticsSvc.Record(ctx.Request.Context(), &event); err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"recorded": 1})
}

// RecordBatch 批量记录事件
// @Summary 批量上报挂件埋点事件
// @Tags Analytics
// @Param storeId query string true "Ecwid 店铺 ID"
// @Param body body BatchEventsReq true "事件列表"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/events/batch [post]
func (c *AnalyticsController) RecordBatch(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)

	var req BatchEventsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "请求体格式错误: "+err.Error())
		return
	}

	events := make([]model.AnalyticsEvent, 0, len(req.Events))
	for i := range req.Events {
		events = append(events, req.Events[i].toModel(storeID))
	}

	if err := c.analyticsSvc.RecordBatch(ctx.Request.Context(), events); err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"recorded": len(events)})
}

// GetSummary 查询事件汇总
// @Summary 查询埋点汇总 (曝光/点击/加购)
// @Tags Analytics
// @Param storeId path string true "Ecwid 店铺 ID"
// @Param days query int false "仅最近 N 天，缺省全量"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/summary/{storeId} [get]
func (c *AnalyticsController) GetSummary(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "0"))

	summary, err := c.analyticsSvc.Summary(ctx.Request.Context(), storeID, days)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"summary": summary})
}
