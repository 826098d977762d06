package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product 商品镜像
// 从 Ecwid 全量拉取后 Upsert，本地只读，不回写平台
type Product struct {
	BaseModel

	// 关联店铺 (平台侧 store_id)
	StoreID string `gorm:"size:32;index;not null" json:"store_id"`

	// Ecwid 平台侧商品信息
	EcwidProductID int64           `gorm:"uniqueIndex;not null" json:"ecwid_product_id"`
	Name           string          `gorm:"size:255" json:"name"`
	SKU            string          `gorm:"size:100;index" json:"sku"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	CompareToPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"compare_to_price"`
	ImageURL       string          `gorm:"size:512" json:"image_url"`
	ThumbnailURL   string          `gorm:"size:512" json:"thumbnail_url"`
	URL            string          `gorm:"size:512" json:"url"`
	Description    string          `gorm:"type:text" json:"-"`
	Enabled        bool            `gorm:"default:true" json:"enabled"`
	InStock        bool            `gorm:"default:true" json:"in_stock"`
	Quantity       int             `gorm:"default:0" json:"quantity"`

	// 分类归属 (平台侧 category_id)
	CategoryID int64 `gorm:"index" json:"category_id"`

	// Ecwid 原始数据 (PostgreSQL JSONB)
	// 镜像列之外的字段靠它回查，避免加列重同步
	EcwidRawData datatypes.JSON `gorm:"type:jsonb" json:"-"`

	// 同步时间
	EcwidSyncedAt *time.Time `gorm:"comment:最后镜像时间" json:"synced_at"`
}

func (Product) TableName() string {
	return "products"
}

// Category 分类镜像
type Category struct {
	BaseModel

	StoreID string `gorm:"size:32;index;not null" json:"store_id"`

	EcwidCategoryID int64  `gorm:"uniqueIndex;not null" json:"ecwid_category_id"`
	ParentID        int64  `gorm:"index;default:0" json:"parent_id"`
	Name            string `gorm:"size:255" json:"name"`
	ProductCount    int    `gorm:"default:0" json:"product_count"`
	Enabled         bool   `gorm:"default:true" json:"enabled"`

	EcwidSyncedAt *time.Time `json:"synced_at"`
}

func (Category) TableName() string {
	return "categories"
}

// 推荐类型常量
const (
	RecommendationKindUpsell    = "upsell"
	RecommendationKindCrossSell = "crosssell"
	RecommendationKindGeneric   = "generic"
)

// ProductRecommendation 预计算推荐关系
// 同步阶段由平台 relatedProducts 数据落库，服务端按原样返回，不做排序计算
type ProductRecommendation struct {
	BaseModel

	StoreID string `gorm:"size:32;index;not null" json:"store_id"`

	// 源商品与被推荐商品 (均为平台侧 product_id)
	SourceProductID      int64  `gorm:"index:idx_rec_source;not null" json:"source_product_id"`
	RecommendedProductID int64  `gorm:"index;not null" json:"recommended_product_id"`
	Kind                 string `gorm:"size:20;index:idx_rec_source;default:'generic'" json:"kind"`
	Rank                 int    `gorm:"default:0;comment:平台给定顺序" json:"rank"`
}

func (ProductRecommendation) TableName() string {
	return "product_recommendations"
}

// RecommendedProduct 推荐接口返回的商品视图
type RecommendedProduct struct {
	EcwidProductID int64           `json:"ecwid_product_id"`
	Name           string          `json:"name"`
	ImageURL       string          `json:"image_url"`
	Price          decimal.Decimal `json:"price"`
	SKU            string          `json:"sku"`
}
