package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ecwid_addon_v1_202609/internal/controller"
	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/model"

	_ "ecwid_addon_v1_202609/docs"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Admin          *controller.AdminController
	OAuth          *controller.OAuthController
	Settings       *controller.SettingsController
	Sync           *controller.SyncController
	Recommendation *controller.RecommendationController
	Store          *controller.StoreController
	Product        *controller.ProductController
	Order          *controller.OrderController
	Analytics      *controller.AnalyticsController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// oauth 授权组
		oauth := api.Group("/oauth")
		{
			// GET /api/oauth/auth/:storeId
			oauth.GET("/auth/:storeId", ctls.OAuth.GetAuthorizationURL)

			// GET /api/oauth/callback (Ecwid 302 回跳)
			oauth.GET("/callback", ctls.OAuth.Callback)

			// GET /api/oauth/status/:storeId
			oauth.GET("/status/:storeId", ctls.OAuth.GetStatus)
		}

		// sync 镜像同步组
		sync := api.Group("/sync")
		{
			sync.GET("/status/:storeId", ctls.Sync.GetStatus)
			// 手动触发走限流，首次加载的 ensure 不走 (其自身有 running 护栏)
			sync.POST("/trigger",
				middleware.SyncRateLimit(middleware.SyncTypeCatalog, 0),
				ctls.Sync.Trigger)
			sync.POST("/ensure", ctls.Sync.EnsureSynced)
		}

		// ecwid 组：管理页设置 + 挂件取数
		ecwid := api.Group("/ecwid")
		{
			settings := ecwid.Group("/recommendation-settings/:storeId")
			{
				settings.GET("", ctls.Settings.GetSettings)
				settings.POST("", ctls.Settings.SaveSettings)
				settings.POST("/toggle-category", ctls.Settings.ToggleCategory)
				settings.POST("/toggle-location", ctls.Settings.ToggleLocation)
			}

			ecwid.GET("/recommendations/:storeId/:productId", ctls.Recommendation.GetRecommendations)
			ecwid.GET("/store/:storeId", ctls.Store.GetStore)
		}

		// analytics 埋点组
		analytics := api.Group("/analytics")
		{
			analytics.POST("/events", ctls.Analytics.RecordEvent)
			analytics.POST("/events/batch", ctls.Analytics.RecordBatch)
			analytics.GET("/summary/:storeId", ctls.Analytics.GetSummary)
		}

		// 仪表盘聚合
		api.GET("/store-stats/:storeId", ctls.Store.GetStoreStats)

		// admin 运维后台登录
		admin := api.Group("/admin")
		{
			admin.POST("/login", ctls.Admin.Login)
			admin.POST("/refresh-token", ctls.Admin.RefreshToken)
			admin.POST("/change-password", middleware.JWTAuth(), ctls.Admin.ChangePassword)
		}

		// stores 店铺管理 (运维侧，JWT 保护)
		stores := api.Group("/stores", middleware.JWTAuth(), middleware.AuditContext())
		{
			stores.GET("", ctls.Store.ListStores)
			stores.GET("/:storeId", ctls.Store.GetStore)
			stores.GET("/:storeId/stats", ctls.Store.GetStoreStats)
			// 删除是破坏性操作，operator 不放行
			stores.DELETE("/:storeId", middleware.RequireRole(model.AdminRoleAdmin), ctls.Store.DeleteStore)
		}

		// 镜像数据只读查询
		api.GET("/products", ctls.Product.ListProducts)
		api.GET("/products/:id", ctls.Product.GetProduct)
		api.GET("/categories", ctls.Product.ListCategories)
		api.GET("/orders", ctls.Order.ListOrders)
		api.GET("/orders/:id", ctls.Order.GetOrder)
	}
}
