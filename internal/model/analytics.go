package model

import "time"

// 事件类型常量
const (
	EventImpression = "impression" // 挂件曝光
	EventClick      = "click"      // 推荐商品点击
	EventAddToCart  = "add_to_cart"
)

// AnalyticsEvent 挂件埋点事件
// 存储端只追加，汇总在查询时聚合
type AnalyticsEvent struct {
	BaseModel

	StoreID string `gorm:"size:32;index:idx_evt_store_time;not null" json:"store_id"`

	EventType string `gorm:"size:30;index;not null" json:"event_type"`
	Category  string `gorm:"size:30;comment:推荐类目" json:"category"`
	Location  string `gorm:"size:30;comment:展示位置" json:"location"`

	// 事件上下文
	ProductID     int64     `gorm:"index" json:"product_id"`
	RecommendedID int64     `json:"recommended_id"`
	SessionID     string    `gorm:"size:64" json:"session_id"`
	OccurredAt    time.Time `gorm:"index:idx_evt_store_time" json:"occurred_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// AnalyticsSummary 埋点汇总视图
type AnalyticsSummary struct {
	StoreID     string `json:"store_id"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	AddToCarts  int64  `json:"add_to_carts"`
	// 按类目细分
	ByCategory map[string]int64 `json:"by_category"`
}

// StoreStats 仪表盘聚合
type StoreStats struct {
	StoreID       string `json:"store_id"`
	ProductCount  int64  `json:"product_count"`
	CategoryCount int64  `json:"category_count"`
	OrderCount    int64  `json:"order_count"`
	EventCount    int64  `json:"event_count"`
	IsSynced      bool   `json:"is_synced"`
	Authenticated bool   `json:"authenticated"`
}
