package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
	"ecwid_addon_v1_202609/pkg/ecwid"
)

// CatalogService 目录镜像服务
// 简单镜像：全量拉取后 Upsert + 清理缺失行，不做增量、不做冲突合并
type CatalogService struct {
	StoreRepo    repository.StoreRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	OrderRepo    repository.OrderRepository
	client       *ecwid.Client

	// 订单镜像最多拉取页数
	orderMaxPages int
}

// NewCatalogService 工厂方法
func NewCatalogService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	client *ecwid.Client,
	orderMaxPages int,
) *CatalogService {
	return &CatalogService{
		StoreRepo:     storeRepo,
		ProductRepo:   productRepo,
		CategoryRepo:  categoryRepo,
		OrderRepo:     orderRepo,
		client:        client,
		orderMaxPages: orderMaxPages,
	}
}

// SyncStore 执行一次店铺全量镜像
// 失败会把错误写回 last_sync_err，is_synced 保持原值
func (s *CatalogService) SyncStore(ctx context.Context, storeID string) error {
	store, err := s.StoreRepo.GetByEcwidStoreID(ctx, storeID)
	if err != nil {
		return ErrStoreNotFound
	}
	if !store.Authenticated() {
		return ErrOAuthSetupRequired
	}
	if store.SyncRunning {
		return ErrSyncAlreadyRunning
	}

	if err = s.StoreRepo.MarkSyncRunning(ctx, store.ID, true); err != nil {
		return err
	}

	start := time.Now()
	productCount, categoryCount, syncErr := s.runSync(ctx, store)

	errMsg := ""
	if syncErr != nil {
		errMsg = syncErr.Error()
		log.Printf("[Catalog] 店铺 [%s] 镜像失败: %v", storeID, syncErr)
	} else {
		log.Printf("[Catalog] 店铺 [%s] 镜像完成: %d 商品 / %d 分类, 耗时 %s",
			storeID, productCount, categoryCount, time.Since(start).Round(time.Millisecond))
	}

	if merr := s.StoreRepo.MarkSynced(ctx, store.ID, productCount, categoryCount, errMsg); merr != nil {
		log.Printf("[Catalog] 店铺 [%s] 同步状态回写失败: %v", storeID, merr)
	}
	return syncErr
}

// runSync 镜像主流程：概要 -> 分类 -> 商品(含推荐关系) -> 订单
func (s *CatalogService) runSync(ctx context.Context, store *model.Store) (productCount, categoryCount int, err error) {
	storeID, token := store.EcwidStoreID, store.AccessToken

	// 1. 店铺概要
	if profile, perr := s.client.GetProfile(ctx, storeID, token); perr == nil {
		_ = s.StoreRepo.UpdateFields(ctx, store.ID, map[string]interface{}{
			"store_name":    profile.Settings.StoreName,
			"store_url":     profile.GeneralInfo.StoreURL,
			"account_email": profile.Account.AccountEmail,
			"currency_code": profile.FormatsAndUnits.Currency,
		})
	}

	// 2. 分类
	categories, err := s.client.ListAllCategories(ctx, storeID, token)
	if err != nil {
		return 0, 0, fmt.Errorf("分类拉取失败: %w", err)
	}
	if err = s.mirrorCategories(ctx, storeID, categories); err != nil {
		return 0, 0, err
	}

	// 3. 商品 + 推荐关系
	products, err := s.client.ListAllProducts(ctx, storeID, token)
	if err != nil {
		return 0, len(categories), fmt.Errorf("商品拉取失败: %w", err)
	}
	if err = s.mirrorProducts(ctx, storeID, products); err != nil {
		return 0, len(categories), err
	}

	// 4. 订单 (报表用，失败不阻塞镜像结果)
	if oerr := s.mirrorOrders(ctx, storeID, token); oerr != nil {
		log.Printf("[Catalog] 店铺 [%s] 订单镜像失败 (忽略): %v", storeID, oerr)
	}

	return len(products), len(categories), nil
}

func (s *CatalogService) mirrorCategories(ctx context.Context, storeID string, dtos []ecwid.CategoryDTO) error {
	now := time.Now()
	rows := make([]model.Category, 0, len(dtos))
	keepIDs := make([]int64, 0, len(dtos))
	for _, dto := range dtos {
		rows = append(rows, model.Category{
			StoreID:         storeID,
			EcwidCategoryID: dto.ID,
			ParentID:        dto.ParentID,
			Name:            dto.Name,
			ProductCount:    dto.ProductCount,
			Enabled:         dto.Enabled,
			EcwidSyncedAt:   &now,
		})
		keepIDs = append(keepIDs, dto.ID)
	}

	if err := s.CategoryRepo.BatchUpsert(ctx, rows); err != nil {
		return fmt.Errorf("分类入库失败: %w", err)
	}
	return s.CategoryRepo.DeleteMissing(ctx, storeID, keepIDs)
}

func (s *CatalogService) mirrorProducts(ctx context.Context, storeID string, dtos []ecwid.ProductDTO) error {
	now := time.Now()
	rows := make([]model.Product, 0, len(dtos))
	keepIDs := make([]int64, 0, len(dtos))
	for _, dto := range dtos {
		raw, _ := json.Marshal(dto)
		rows = append(rows, model.Product{
			StoreID:        storeID,
			EcwidProductID: dto.ID,
			Name:           dto.Name,
			SKU:            dto.SKU,
			Price:          decimal.NewFromFloat(dto.Price),
			CompareToPrice: decimal.NewFromFloat(dto.CompareToPrice),
			ImageURL:       dto.ImageURL,
			ThumbnailURL:   dto.ThumbnailURL,
			URL:            dto.URL,
			Description:    dto.Description,
			Enabled:        dto.Enabled,
			InStock:        dto.InStock || dto.Unlimited,
			Quantity:       dto.Quantity,
			CategoryID:     dto.DefaultCategoryID,
			EcwidRawData:   datatypes.JSON(raw),
			EcwidSyncedAt:  &now,
		})
		keepIDs = append(keepIDs, dto.ID)
	}

	if err := s.ProductRepo.BatchUpsert(ctx, rows); err != nil {
		return fmt.Errorf("商品入库失败: %w", err)
	}
	if err := s.ProductRepo.DeleteMissing(ctx, storeID, keepIDs); err != nil {
		return err
	}

	// 推荐关系落库
	// 平台只给 relatedProducts 一种关联，类目口径如下：
	//   比当前商品贵 → upsell，其余 → generic；crosssell 来自同单共现，这里不生成
	for _, dto := range dtos {
		if dto.RelatedProducts == nil || len(dto.RelatedProducts.ProductIDs) == 0 {
			// 无关联配置的商品清空旧关系
			if err := s.ProductRepo.ReplaceRecommendations(ctx, storeID, dto.ID, nil); err != nil {
				return err
			}
			continue
		}

		recs := make([]model.ProductRecommendation, 0, len(dto.RelatedProducts.ProductIDs))
		for rank, relatedID := range dto.RelatedProducts.ProductIDs {
			kind := model.RecommendationKindGeneric
			if related := findProduct(dtos, relatedID); related != nil && related.Price > dto.Price {
				kind = model.RecommendationKindUpsell
			}
			recs = append(recs, model.ProductRecommendation{
				StoreID:              storeID,
				SourceProductID:      dto.ID,
				RecommendedProductID: relatedID,
				Kind:                 kind,
				Rank:                 rank,
			})
		}
		if err := s.ProductRepo.ReplaceRecommendations(ctx, storeID, dto.ID, recs); err != nil {
			return fmt.Errorf("推荐关系入库失败: %w", err)
		}
	}
	return nil
}

func findProduct(dtos []ecwid.ProductDTO, id int64) *ecwid.ProductDTO {
	for i := range dtos {
		if dtos[i].ID == id {
			return &dtos[i]
		}
	}
	return nil
}

func (s *CatalogService) mirrorOrders(ctx context.Context, storeID, token string) error {
	dtos, err := s.client.ListOrders(ctx, storeID, token, s.orderMaxPages)
	if err != nil {
		return err
	}

	rows := make([]model.Order, 0, len(dtos))
	for _, dto := range dtos {
		placedAt, _ := time.Parse("2006-01-02 15:04:05 -0700", dto.CreateDate)
		raw, _ := json.Marshal(dto)
		rows = append(rows, model.Order{
			StoreID:       storeID,
			EcwidOrderID:  dto.ID,
			CustomerEmail: dto.Email,
			Total:         decimal.NewFromFloat(dto.Total),
			Subtotal:      decimal.NewFromFloat(dto.Subtotal),
			PaymentStatus: dto.PaymentStatus,
			OrderStatus:   dto.FulfillmentStatus,
			ItemCount:     len(dto.Items),
			EcwidRawData:  datatypes.JSON(raw),
			PlacedAt:      placedAt,
		})
	}
	return s.OrderRepo.BatchUpsert(ctx, rows)
}
