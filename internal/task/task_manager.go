package task

import (
	"context"
	"log"
	"time"

	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务
// 管理范围：Token 保活、目录镜像
type TaskManager struct {
	tokenTask   *TokenTask
	catalogTask *CatalogSyncTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	StoreRepo      repository.StoreRepository
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// Token 保活
	TokenEnabled bool

	// 目录镜像
	CatalogEnabled     bool
	CatalogConcurrency int
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		TokenEnabled:       true,
		CatalogEnabled:     true,
		CatalogConcurrency: 3,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}

	// Token 保活任务
	if cfg.TokenEnabled && deps.AuthService != nil {
		tm.tokenTask = NewTokenTask(deps.StoreRepo, deps.AuthService)
	}

	// 目录镜像任务
	if cfg.CatalogEnabled && deps.CatalogService != nil {
		tm.catalogTask = NewCatalogSyncTask(deps.StoreRepo, deps.CatalogService)
		tm.catalogTask.SetConcurrency(cfg.CatalogConcurrency, 200*time.Millisecond)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() {
	log.Println("[TaskManager] 正在启动后台任务...")

	if tm.tokenTask != nil {
		tm.tokenTask.Start()
	}
	if tm.catalogTask != nil {
		tm.catalogTask.Start()
	}

	log.Println("[TaskManager] 后台任务已全部启动")
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止后台任务...")

	if tm.tokenTask != nil {
		tm.tokenTask.Stop()
	}
	if tm.catalogTask != nil {
		tm.catalogTask.Stop()
	}

	log.Println("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerCatalogSync 触发目录镜像 (实现 service.CatalogSyncer)
func (tm *TaskManager) TriggerCatalogSync(ctx context.Context, storeID string) error {
	if tm.catalogTask == nil {
		return ErrTaskDisabled
	}
	return tm.catalogTask.SyncStoreNow(ctx, storeID)
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"token":   tm.tokenTask != nil,
		"catalog": tm.catalogTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
