package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品镜像仓储接口
type ProductRepository interface {
	GetByEcwidProductID(ctx context.Context, productID int64) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)

	// 批量操作 (同步路径)
	BatchUpsert(ctx context.Context, products []model.Product) error
	DeleteMissing(ctx context.Context, storeID string, keepIDs []int64) error
	CountByStore(ctx context.Context, storeID string) (int64, error)

	// 推荐关系
	ReplaceRecommendations(ctx context.Context, storeID string, sourceProductID int64, recs []model.ProductRecommendation) error
	GetRecommendedProducts(ctx context.Context, storeID string, sourceProductID int64) ([]model.RecommendedProduct, error)

	WithTx(tx *gorm.DB) ProductRepository
	Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error
}

// ==================== 过滤条件 ====================

// ProductFilter 商品过滤条件
type ProductFilter struct {
	StoreID    string
	CategoryID int64
	Keyword    string
	InStock    *bool
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByEcwidProductID(ctx context.Context, productID int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("ecwid_product_id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("store_id = ?", filter.StoreID)
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Keyword != "" {
		q = q.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.InStock != nil {
		q = q.Where("in_stock = ?", *filter.InStock)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := q.Order("ecwid_product_id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// BatchUpsert 按平台商品 ID 冲突更新
func (r *productRepo) BatchUpsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ecwid_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "sku", "price", "compare_to_price", "image_url",
				"thumbnail_url", "url", "description", "enabled", "in_stock",
				"quantity", "category_id", "ecwid_raw_data", "ecwid_synced_at",
				"updated_at",
			}),
		}).
		CreateInBatches(products, 100).Error
}

// DeleteMissing 删除平台侧已不存在的镜像行
func (r *productRepo) DeleteMissing(ctx context.Context, storeID string, keepIDs []int64) error {
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if len(keepIDs) > 0 {
		q = q.Where("ecwid_product_id NOT IN ?", keepIDs)
	}
	return q.Delete(&model.Product{}).Error
}

func (r *productRepo) CountByStore(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// ReplaceRecommendations 整组替换某商品的推荐关系
func (r *productRepo) ReplaceRecommendations(ctx context.Context, storeID string, sourceProductID int64, recs []model.ProductRecommendation) error {
	return r.Transaction(ctx, func(txRepo ProductRepository) error {
		tx := txRepo.(*productRepo).db
		if err := tx.Where("store_id = ? AND source_product_id = ?", storeID, sourceProductID).
			Delete(&model.ProductRecommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(recs, 100).Error
	})
}

// GetRecommendedProducts 按落库顺序返回推荐商品视图
// 推荐商品在镜像中缺失 (已下架/删除) 时直接跳过
func (r *productRepo) GetRecommendedProducts(ctx context.Context, storeID string, sourceProductID int64) ([]model.RecommendedProduct, error) {
	var results []model.RecommendedProduct
	err := r.db.WithContext(ctx).
		Table("product_recommendations AS pr").
		Select("p.ecwid_product_id, p.name, p.image_url, p.price, p.sku").
		Joins("JOIN products p ON p.ecwid_product_id = pr.recommended_product_id AND p.deleted_at IS NULL").
		Where("pr.store_id = ? AND pr.source_product_id = ? AND pr.deleted_at IS NULL", storeID, sourceProductID).
		Where("p.enabled = ?", true).
		Order("pr.rank").
		Scan(&results).Error
	return results, err
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
