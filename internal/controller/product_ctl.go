package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecwid_addon_v1_202609/internal/repository"
)

// ProductController 商品镜像控制器
type ProductController struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductController 创建商品控制器
func NewProductController(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductController {
	return &ProductController{productRepo: productRepo, categoryRepo: categoryRepo}
}

// ==================== Handler 实现 ====================

// ListProducts 商品列表
// @Summary 分页查询镜像商品
// @Tags Products
// @Param storeId query string true "Ecwid 店铺 ID"
// @Param categoryId query int false "分类 ID"
// @Param keyword query string false "名称/SKU 关键词"
// @Param page query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} map[string]interface{}
// @Router /api/products [get]
func (c *ProductController) ListProducts(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)
	if storeID == "" {
		fail(ctx, http.StatusBadRequest, "缺少 storeId")
		return
	}

	page, pageSize := pagination(ctx)
	filter := repository.ProductFilter{
		StoreID:    storeID,
		CategoryID: parseInt64(ctx.Query("categoryId")),
		Keyword:    ctx.Query("keyword"),
		Page:       page,
		PageSize:   pageSize,
	}

	products, total, err := c.productRepo.List(ctx.Request.Context(), filter)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetProduct 商品详情
// @Summary 按 Ecwid 商品 ID 查询镜像商品
// @Tags Products
// @Param id path int true "Ecwid 商品 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [get]
func (c *ProductController) GetProduct(ctx *gin.Context) {
	productID := parseInt64(ctx.Param("id"))
	if productID == 0 {
		fail(ctx, http.StatusBadRequest, "非法的商品 ID")
		return
	}

	product, err := c.productRepo.GetByEcwidProductID(ctx.Request.Context(), productID)
	if err != nil {
		fail(ctx, http.StatusNotFound, "商品不存在")
		return
	}

	ok(ctx, gin.H{"product": product})
}

// ListCategories 分类列表
// @Summary 查询店铺镜像分类
// @Tags Products
// @Param storeId query string true "Ecwid 店铺 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/categories [get]
func (c *ProductController) ListCategories(ctx *gin.Context) {
	storeID := storeIDFrom(ctx)
	if storeID == "" {
		fail(ctx, http.StatusBadRequest, "缺少 storeId")
		return
	}

	categories, err := c.categoryRepo.ListByStore(ctx.Request.Context(), storeID)
	if err != nil {
		failErr(ctx, err)
		return
	}

	ok(ctx, gin.H{"categories": categories})
}
