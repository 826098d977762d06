package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/service"
)

// RecommendationController 推荐控制器 (店面挂件取数端点)
type RecommendationController struct {
	recSvc *service.RecommendationService
}

// NewRecommendationController 创建推荐控制器
func NewRecommendationController(recSvc *service.RecommendationService) *RecommendationController {
	return &RecommendationController{recSvc: recSvc}
}

// ==================== Handler 实现 ====================

// GetRecommendations 取商品推荐列表
// 空列表是正常结果 (挂件对空结果不渲染)，不算错误
// @Summary 取某商品的推荐列表
// @Tags Recommendations
// @Param storeId path string true "Ecwid 店铺 ID"
// @Param productId path int true "商品 ID"
// @Param category query string false "推荐类目 (默认 showRecommendations)"
// @Param location query string false "展示位置 (默认 productPage)"
// @Success 200 {object} map[string]interface{}
// @Router /api/ecwid/recommendations/{storeId}/{productId} [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)
	productID := parseInt64(ctx.Param("productId"))
	if productID == 0 {
		productID = parseInt64(ctx.Query("productId"))
	}
	if productID == 0 {
		fail(ctx, http.StatusBadRequest, "缺少或非法的 productId")
		return
	}

	category := ctx.DefaultQuery("category", model.CategoryRecommendations)
	location := ctx.DefaultQuery("location", model.LocationProductPage)

	// 先过设置闸门：关着就直接空结果，不查数据
	enabled, err := c.recSvc.FeatureEnabled(ctx.Request.Context(), storeID, category, location)
	if err != nil {
		failErr(ctx, err)
		return
	}
	if !enabled {
		ok(ctx, gin.H{"enabled": false, "recommendations": []model.RecommendedProduct{}})
		return
	}

	items, err := c.recSvc.GetForProduct(ctx.Request.Context(), storeID, productID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"enabled": true, "recommendations": items})
}
