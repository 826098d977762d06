package model

import "fmt"

// 推荐类目常量
// 三个类目各自独立：总开关 + 固定的展示位置集合
const (
	CategoryUpsells         = "showUpsells"
	CategoryCrossSells      = "showCrossSells"
	CategoryRecommendations = "showRecommendations"
)

// 展示位置常量 (闭集，不接受自定义位置)
const (
	LocationProductPage  = "productPage"
	LocationCartPage     = "cartPage"
	LocationCheckoutPage = "checkoutPage"
	LocationCategoryPage = "categoryPage"
	LocationThankYouPage = "thankYouPage"
)

// UpsellLocations 追加销售展示位置
type UpsellLocations struct {
	ProductPage bool `gorm:"default:false" json:"productPage"`
	CartPage    bool `gorm:"default:false" json:"cartPage"`
}

// CrossSellLocations 交叉销售展示位置
type CrossSellLocations struct {
	CartPage     bool `gorm:"default:false" json:"cartPage"`
	CheckoutPage bool `gorm:"default:false" json:"checkoutPage"`
}

// RecommendationLocations 通用推荐展示位置
type RecommendationLocations struct {
	CategoryPage bool `gorm:"default:false" json:"categoryPage"`
	ProductPage  bool `gorm:"default:false" json:"productPage"`
	ThankYouPage bool `gorm:"default:false" json:"thankYouPage"`
}

// RecommendationSettings 推荐设置
// 每个店铺一条，首次加载时全 false，仅通过两个 Toggle 操作变更，显式保存才落库
type RecommendationSettings struct {
	BaseModel
	AuditMixin

	// 关联店铺 (平台侧 store_id)
	StoreID string `gorm:"size:32;uniqueIndex;not null" json:"-"`

	// 三个类目总开关
	ShowUpsells         bool `gorm:"default:false" json:"showUpsells"`
	ShowCrossSells      bool `gorm:"default:false" json:"showCrossSells"`
	ShowRecommendations bool `gorm:"default:false" json:"showRecommendations"`

	// 各类目展示位置
	UpsellLocations         UpsellLocations         `gorm:"embedded;embeddedPrefix:upsell_" json:"upsellLocations"`
	CrossSellLocations      CrossSellLocations      `gorm:"embedded;embeddedPrefix:crosssell_" json:"crossSellLocations"`
	RecommendationLocations RecommendationLocations `gorm:"embedded;embeddedPrefix:recommendation_" json:"recommendationLocations"`
}

func (RecommendationSettings) TableName() string {
	return "recommendation_settings"
}

// DefaultSettings 默认设置：全部关闭
func DefaultSettings(storeID string) *RecommendationSettings {
	return &RecommendationSettings{StoreID: storeID}
}

// ToggleCategory 翻转类目总开关
// 级联规则：false→true 时把该类目所有位置重置为 true（覆盖此前的逐项选择）；
// true→false 时位置保持原值不动，仅由总开关在渲染侧拦截。
// 该不对称是既定业务规则，勿“修复”。
func (s *RecommendationSettings) ToggleCategory(category string) error {
	switch category {
	case CategoryUpsells:
		s.ShowUpsells = !s.ShowUpsells
		if s.ShowUpsells {
			s.UpsellLocations = UpsellLocations{ProductPage: true, CartPage: true}
		}
	case CategoryCrossSells:
		s.ShowCrossSells = !s.ShowCrossSells
		if s.ShowCrossSells {
			s.CrossSellLocations = CrossSellLocations{CartPage: true, CheckoutPage: true}
		}
	case CategoryRecommendations:
		s.ShowRecommendations = !s.ShowRecommendations
		if s.ShowRecommendations {
			s.RecommendationLocations = RecommendationLocations{CategoryPage: true, ProductPage: true, ThankYouPage: true}
		}
	default:
		return fmt.Errorf("未知推荐类目: %s", category)
	}
	return nil
}

// ToggleLocation 翻转单个展示位置
// 永不触碰类目总开关：允许总开关为 true 而所有位置为 false
func (s *RecommendationSettings) ToggleLocation(category, location string) error {
	switch category {
	case CategoryUpsells:
		switch location {
		case LocationProductPage:
			s.UpsellLocations.ProductPage = !s.UpsellLocations.ProductPage
		case LocationCartPage:
			s.UpsellLocations.CartPage = !s.UpsellLocations.CartPage
		default:
			return fmt.Errorf("类目 %s 不包含位置: %s", category, location)
		}
	case CategoryCrossSells:
		switch location {
		case LocationCartPage:
			s.CrossSellLocations.CartPage = !s.CrossSellLocations.CartPage
		case LocationCheckoutPage:
			s.CrossSellLocations.CheckoutPage = !s.CrossSellLocations.CheckoutPage
		default:
			return fmt.Errorf("类目 %s 不包含位置: %s", category, location)
		}
	case CategoryRecommendations:
		switch location {
		case LocationCategoryPage:
			s.RecommendationLocations.CategoryPage = !s.RecommendationLocations.CategoryPage
		case LocationProductPage:
			s.RecommendationLocations.ProductPage = !s.RecommendationLocations.ProductPage
		case LocationThankYouPage:
			s.RecommendationLocations.ThankYouPage = !s.RecommendationLocations.ThankYouPage
		default:
			return fmt.Errorf("类目 %s 不包含位置: %s", category, location)
		}
	default:
		return fmt.Errorf("未知推荐类目: %s", category)
	}
	return nil
}

// EnabledAt 渲染侧判定：某类目是否应在某位置展示
// 总开关是唯一闸门，开关关闭时位置值视为惰性保留
func (s *RecommendationSettings) EnabledAt(category, location string) bool {
	switch category {
	case CategoryUpsells:
		if !s.ShowUpsells {
			return false
		}
		return (location == LocationProductPage && s.UpsellLocations.ProductPage) ||
			(location == LocationCartPage && s.UpsellLocations.CartPage)
	case CategoryCrossSells:
		if !s.ShowCrossSells {
			return false
		}
		return (location == LocationCartPage && s.CrossSellLocations.CartPage) ||
			(location == LocationCheckoutPage && s.CrossSellLocations.CheckoutPage)
	case CategoryRecommendations:
		if !s.ShowRecommendations {
			return false
		}
		return (location == LocationCategoryPage && s.RecommendationLocations.CategoryPage) ||
			(location == LocationProductPage && s.RecommendationLocations.ProductPage) ||
			(location == LocationThankYouPage && s.RecommendationLocations.ThankYouPage)
	}
	return false
}
