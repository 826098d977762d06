package service

import (
	"context"
	"log"
	"time"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// CatalogSyncer 触发一次全量镜像的能力
// 由 task 层实现，service 层只管触发不管执行
type CatalogSyncer interface {
	TriggerCatalogSync(ctx context.Context, storeID string) error
}

// SyncService 同步状态服务
type SyncService struct {
	StoreRepo repository.StoreRepository
	syncer    CatalogSyncer

	// 触发后的单次状态复查延迟
	recheckDelay time.Duration
	// 可注入的定时器，测试用
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewSyncService 工厂方法
func NewSyncService(storeRepo repository.StoreRepository, syncer CatalogSyncer, recheckDelay time.Duration) *SyncService {
	if recheckDelay <= 0 {
		recheckDelay = 5 * time.Second
	}
	return &SyncService{
		StoreRepo:    storeRepo,
		syncer:       syncer,
		recheckDelay: recheckDelay,
		afterFunc:    time.AfterFunc,
	}
}

// SyncStatus 同步状态视图
type SyncStatus struct {
	IsSynced      bool       `json:"isSynced"`
	SyncRunning   bool       `json:"syncRunning"`
	LastSyncAt    *time.Time `json:"lastSyncAt"`
	LastSyncErr   string     `json:"lastSyncError,omitempty"`
	ProductCount  int        `json:"productCount"`
	CategoryCount int        `json:"categoryCount"`
}

func statusOf(store *model.Store) *SyncStatus {
	return &SyncStatus{
		IsSynced:      store.IsSynced,
		SyncRunning:   store.SyncRunning,
		LastSyncAt:    store.LastSyncAt,
		LastSyncErr:   store.LastSyncErr,
		ProductCount:  store.ProductCount,
		CategoryCount: store.CategoryCount,
	}
}

// GetStatus 查询同步状态
func (s *SyncService) GetStatus(ctx context.Context, storeID string) (*SyncStatus, error) {
	if storeID == "" {
		return nil, ErrMissingStoreID
	}
	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	return statusOf(store), nil
}

// Trigger 手动触发一次同步
func (s *SyncService) Trigger(ctx context.Context, storeID string) error {
	if storeID == "" {
		return ErrMissingStoreID
	}
	return s.syncer.TriggerCatalogSync(ctx, storeID)
}

// EnsureSynced 首次加载路径：发现未镜像则补一次同步
// 行为约定：恰好触发一次同步 (不等待完成)，并在固定延迟后恰好复查一次状态；
// 复查后仍未同步不再有任何自动动作，由商户刷新页面重新触发。
func (s *SyncService) EnsureSynced(ctx context.Context, storeID string) (*SyncStatus, error) {
	status, err := s.GetStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if status.IsSynced || status.SyncRunning {
		return status, nil
	}

	// 触发不等待完成
	if err := s.syncer.TriggerCatalogSync(ctx, storeID); err != nil {
		log.Printf("[Sync] 店铺 [%s] 同步触发失败: %v", storeID, err)
		return status, nil
	}
	log.Printf("[Sync] 店铺 [%s] 未镜像，已触发同步，%s 后复查一次", storeID, s.recheckDelay)

	// 恰好一次的延迟复查，结果仅记日志
	s.afterFunc(s.recheckDelay, func() {
		recheckCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recheck, rerr := s.GetStatus(recheckCtx, storeID)
		if rerr != nil {
			log.Printf("[Sync] 店铺 [%s] 状态复查失败: %v", storeID, rerr)
			return
		}
		if recheck.IsSynced {
			log.Printf("[Sync] 店铺 [%s] 镜像完成: %d 商品 / %d 分类",
				storeID, recheck.ProductCount, recheck.CategoryCount)
		} else {
			log.Printf("[Sync] 店铺 [%s] 复查仍未完成，等待商户手动刷新", storeID)
		}
	})

	return status, nil
}
