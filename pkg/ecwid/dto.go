package ecwid

// ==================== OAuth ====================

// TokenResp Ecwid token 接口响应
type TokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	StoreID     int64  `json:"store_id"`
	// Ecwid 的 access_token 默认长期有效，refresh 字段按返回兼容处理
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorDesc    string `json:"error_description,omitempty"`
}

// ==================== 店铺 ====================

// ProfileResp GET /api/v3/{storeId}/profile
type ProfileResp struct {
	GeneralInfo struct {
		StoreID  int64  `json:"storeId"`
		StoreURL string `json:"storeUrl"`
	} `json:"generalInfo"`
	Settings struct {
		StoreName string `json:"storeName"`
	} `json:"settings"`
	Account struct {
		AccountName  string `json:"accountName"`
		AccountEmail string `json:"accountEmail"`
	} `json:"account"`
	FormatsAndUnits struct {
		Currency string `json:"currency"`
	} `json:"formatsAndUnits"`
}

// ==================== 商品 ====================

// ProductsResp GET /api/v3/{storeId}/products (分页)
type ProductsResp struct {
	Total  int          `json:"total"`
	Count  int          `json:"count"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Items  []ProductDTO `json:"items"`
}

// ProductDTO 平台侧商品
type ProductDTO struct {
	ID             int64   `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	CompareToPrice float64 `json:"compareToPrice"`
	URL            string  `json:"url"`
	Enabled        bool    `json:"enabled"`
	Quantity       int     `json:"quantity"`
	Unlimited      bool    `json:"unlimited"`
	InStock        bool    `json:"inStock"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"imageUrl"`
	ThumbnailURL   string  `json:"thumbnailUrl"`

	CategoryIDs       []int64 `json:"categoryIds"`
	DefaultCategoryID int64   `json:"defaultCategoryId"`

	// 预计算推荐来源
	RelatedProducts *RelatedProductsDTO `json:"relatedProducts,omitempty"`
}

// RelatedProductsDTO 平台维护的关联商品配置
type RelatedProductsDTO struct {
	ProductIDs      []int64 `json:"productIds"`
	RelatedCategory struct {
		Enabled      bool  `json:"enabled"`
		CategoryID   int64 `json:"categoryId"`
		ProductCount int   `json:"productCount"`
	} `json:"relatedCategory"`
}

// ==================== 分类 ====================

// CategoriesResp GET /api/v3/{storeId}/categories
type CategoriesResp struct {
	Total  int           `json:"total"`
	Count  int           `json:"count"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Items  []CategoryDTO `json:"items"`
}

// CategoryDTO 平台侧分类
type CategoryDTO struct {
	ID           int64  `json:"id"`
	ParentID     int64  `json:"parentId"`
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
	Enabled      bool   `json:"enabled"`
}

// ==================== 订单 ====================

// OrdersResp GET /api/v3/{storeId}/orders
type OrdersResp struct {
	Total  int        `json:"total"`
	Count  int        `json:"count"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Items  []OrderDTO `json:"items"`
}

// OrderDTO 平台侧订单
type OrderDTO struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	Total             float64        `json:"total"`
	Subtotal          float64        `json:"subtotal"`
	PaymentStatus     string         `json:"paymentStatus"`
	FulfillmentStatus string         `json:"fulfillmentStatus"`
	CreateDate        string         `json:"createDate"`
	Items             []OrderItemDTO `json:"items"`
}

// OrderItemDTO 平台侧订单行
type OrderItemDTO struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
