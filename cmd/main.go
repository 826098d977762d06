package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"ecwid_addon_v1_202609/internal/config"
	"ecwid_addon_v1_202609/internal/controller"
	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/router"
	"ecwid_addon_v1_202609/internal/service"
	"ecwid_addon_v1_202609/internal/task"
	"ecwid_addon_v1_202609/pkg/database"
	"ecwid_addon_v1_202609/pkg/ecwid"
)

func main() {
	// .env 存在就加载，线上直接用环境变量
	_ = godotenv.Load()

	// 1. 读取配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动后台任务
	if cfg.Sync.Enabled {
		deps.Tasks.Start()
		defer deps.Tasks.Stop()
	}

	// 5. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers)

	// 6. 启动服务
	startServer(r, cfg.Server.Port)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Tasks       *task.TaskManager
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Admin     repository.AdminRepository
	Store     repository.StoreRepository
	Settings  repository.SettingsRepository
	Product   repository.ProductRepository
	Category  repository.CategoryRepository
	Order     repository.OrderRepository
	Analytics repository.AnalyticsRepository
}

// Services 服务集合
type Services struct {
	Admin          *service.AdminService
	Auth           *service.AuthService
	Settings       *service.SettingsService
	Sync           *service.SyncService
	Catalog        *service.CatalogService
	Recommendation *service.RecommendationService
	Analytics      *service.AnalyticsService
	Stats          *service.StatsService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN(),
		// 运维账号
		&model.AdminUser{},
		// Store
		&model.Store{}, &model.RecommendationSettings{},
		// Catalog 镜像
		&model.Product{}, &model.Category{}, &model.ProductRecommendation{},
		// Order 镜像
		&model.Order{}, &model.OrderItem{},
		// 埋点
		&model.AnalyticsEvent{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	// -------- 中间件全局配置 --------
	jwtCfg := middleware.DefaultJWTConfig()
	if cfg.Auth.JWTSecret != "" {
		jwtCfg.SecretKey = cfg.Auth.JWTSecret
	}
	if cfg.Auth.Issuer != "" {
		jwtCfg.Issuer = cfg.Auth.Issuer
	}
	middleware.SetJWTConfig(jwtCfg)
	middleware.RegisterAuditCallbacks(db)

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 平台客户端 --------
	client := ecwid.NewClient(ecwid.Config{
		ClientID:     cfg.Ecwid.ClientID,
		ClientSecret: cfg.Ecwid.ClientSecret,
		RedirectURL:  cfg.Ecwid.RedirectURL,
		APIBase:      cfg.Ecwid.APIBase,
		TokenURL:     cfg.Ecwid.TokenURL,
	})

	// -------- 业务服务 --------
	services := &Services{}
	services.Admin = service.NewAdminService(repos.Admin)
	services.Auth = service.NewAuthService(repos.Store, client, cfg.Ecwid.AdminReturnURL)
	services.Settings = service.NewSettingsService(repos.Settings, services.Auth)
	services.Catalog = service.NewCatalogService(
		repos.Store, repos.Product, repos.Category, repos.Order,
		client, cfg.Sync.OrderMaxPages,
	)
	services.Recommendation = service.NewRecommendationService(repos.Product, repos.Settings)
	services.Analytics = service.NewAnalyticsService(repos.Analytics)
	services.Stats = service.NewStatsService(
		repos.Store, repos.Product, repos.Category, repos.Order, repos.Analytics,
	)

	// 账号表为空时建初始管理员
	if err := services.Admin.EnsureBootstrapAdmin(
		context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword,
	); err != nil {
		log.Printf("初始管理员创建失败: %v", err)
	}

	// -------- 后台任务 --------
	// TaskManager 同时充当 SyncService 的触发器
	tasks := task.NewTaskManager(&task.TaskManagerDeps{
		StoreRepo:      repos.Store,
		AuthService:    services.Auth,
		CatalogService: services.Catalog,
	}, nil)
	services.Sync = service.NewSyncService(
		repos.Store, tasks,
		time.Duration(cfg.Sync.RecheckSeconds)*time.Second,
	)

	// -------- Controller 层 --------
	controllers := initControllers(repos, services)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Tasks:       tasks,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Admin:     repository.NewAdminRepository(db),
		Store:     repository.NewStoreRepository(db),
		Settings:  repository.NewSettingsRepository(db),
		Product:   repository.NewProductRepository(db),
		Category:  repository.NewCategoryRepository(db),
		Order:     repository.NewOrderRepository(db),
		Analytics: repository.NewAnalyticsRepository(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(repos *Repositories, svc *Services) *router.Controllers {
	return &router.Controllers{
		Admin:          controller.NewAdminController(svc.Admin),
		OAuth:          controller.NewOAuthController(svc.Auth),
		Settings:       controller.NewSettingsController(svc.Settings),
		Sync:           controller.NewSyncController(svc.Sync),
		Recommendation: controller.NewRecommendationController(svc.Recommendation),
		Store:          controller.NewStoreController(repos.Store, svc.Stats),
		Product:        controller.NewProductController(repos.Product, repos.Category),
		Order:          controller.NewOrderController(repos.Order),
		Analytics:      controller.NewAnalyticsController(svc.Analytics),
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	if port == "" {
		port = getEnv("SERVER_PORT", "8080")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
