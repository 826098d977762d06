package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// CatalogSyncTask 目录镜像任务
// 周期性对所有已授权店铺做全量镜像，另提供手动触发入口
type CatalogSyncTask struct {
	StoreRepo      repository.StoreRepository
	CatalogService *service.CatalogService
	Cron           *cron.Cron

	concurrencyLimit int
	sleepTime        time.Duration
}

func NewCatalogSyncTask(storeRepo repository.StoreRepository, catalogService *service.CatalogService) *CatalogSyncTask {
	return &CatalogSyncTask{
		StoreRepo:        storeRepo,
		CatalogService:   catalogService,
		Cron:             cron.New(cron.WithSeconds()),
		concurrencyLimit: 3,
		sleepTime:        200 * time.Millisecond,
	}
}

// SetConcurrency 调整并发参数
func (t *CatalogSyncTask) SetConcurrency(limit int, sleep time.Duration) {
	if limit > 0 {
		t.concurrencyLimit = limit
	}
	if sleep > 0 {
		t.sleepTime = sleep
	}
}

// Start 启动定时任务
// 每 6 小时全量刷一轮，镜像数据允许有这个量级的滞后
func (t *CatalogSyncTask) Start() {
	_, err := t.Cron.AddFunc("0 0 0/6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		t.syncAllJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动目录镜像定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("目录镜像任务已启动 (每6小时一轮)")
}

// Stop 停止定时任务
func (t *CatalogSyncTask) Stop() {
	t.Cron.Stop()
}

// SyncStoreNow 立即镜像单个店铺 (异步执行，立即返回)
func (t *CatalogSyncTask) SyncStoreNow(ctx context.Context, storeID string) error {
	go func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := t.CatalogService.SyncStore(jobCtx, storeID); err != nil {
			log.Printf("[Task] 店铺 [%s] 镜像失败: %v", storeID, err)
			return
		}
		middleware.MarkSyncExecuted(storeID, middleware.SyncTypeCatalog)
	}()
	return nil
}

// syncAllJob 全量刷一轮已授权店铺
func (t *CatalogSyncTask) syncAllJob(ctx context.Context) {
	stores, err := t.StoreRepo.FindActiveStores(ctx)
	if err != nil {
		log.Printf("[Cron] 活跃店铺查询失败: %v", err)
		return
	}
	if len(stores) == 0 {
		return
	}

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] 开始镜像 %d 个店铺，并发上限: %d", len(stores), t.concurrencyLimit)

	for _, store := range stores {
		select {
		case <-ctx.Done():
			log.Println("[Cron] 镜像任务超时停止")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		time.Sleep(t.sleepTime)

		go func(s model.Store) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.CatalogService.SyncStore(ctx, s.EcwidStoreID); err != nil {
				log.Printf("[Cron] 店铺 [%s] 镜像失败: %v", s.EcwidStoreID, err)
			}
		}(store)
	}

	wg.Wait()
	log.Println("[Cron] 本轮目录镜像任务完成")
}
