package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/internal/service"
)

// TokenTask Token 保活任务
// 周期性扫描临近过期的店铺并刷新 Token
type TokenTask struct {
	StoreRepo   repository.StoreRepository
	AuthService *service.AuthService
	Cron        *cron.Cron

	// 临近过期的判定窗口
	expiryWindow time.Duration

	// 控制并发刷新的数量，防止把平台限额打满
	concurrencyLimit int
	sleepTime        time.Duration
}

func NewTokenTask(storeRepo repository.StoreRepository, authService *service.AuthService) *TokenTask {
	return &TokenTask{
		StoreRepo:        storeRepo,
		AuthService:      authService,
		Cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		expiryWindow:     24 * time.Hour,
		concurrencyLimit: 20,
		sleepTime:        50 * time.Millisecond, // 每个协程启动间隔，平滑波峰
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次 Token 检查...")
		t.refreshJob(ctx)
	}()

	// 定时策略
	_, err := t.Cron.AddFunc("0 0/40 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动 Token 定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("Token 保活任务已启动 (每40分钟检查一次)")
}

// Stop 停止定时任务
func (t *TokenTask) Stop() {
	t.Cron.Stop()
}

// 自动刷新逻辑
func (t *TokenTask) refreshJob(ctx context.Context) {
	stores, err := t.StoreRepo.FindExpiringStores(ctx, t.expiryWindow)
	if err != nil {
		log.Printf("[Cron] 店铺过期状态查询失败: %v", err)
		return
	}
	if len(stores) == 0 {
		return
	}

	// 信号量通道，容量即为并发上限
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] 开始处理 %d 个店铺的 Token 刷新，并发上限: %d", len(stores), t.concurrencyLimit)

	for _, store := range stores {
		// 检查上下文是否已取消（超时处理）
		select {
		case <-ctx.Done():
			log.Println("[Cron] 任务超时停止")
			return
		default:
		}

		// 获取信号量（如果已满则阻塞在此，起到限流作用）
		sem <- struct{}{}
		wg.Add(1)

		// 平滑波峰
		time.Sleep(t.sleepTime)

		go func(s model.Store) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.AuthService.RefreshAccessToken(ctx, &s); err != nil {
				// 日志仅记录，不中断其他协程
				log.Printf("[Cron] 店铺 [%s] 刷新失败: %v", s.EcwidStoreID, err)
			}
		}(store)
	}

	wg.Wait()
	log.Println("[Cron] 本轮 Token 刷新任务完成")
}
