package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order 订单镜像 (只读报表用)
type Order struct {
	BaseModel

	StoreID string `gorm:"size:32;index;not null" json:"store_id"`

	EcwidOrderID  string          `gorm:"size:64;uniqueIndex;not null" json:"ecwid_order_id"`
	CustomerEmail string          `gorm:"size:100" json:"customer_email"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	CurrencyCode  string          `gorm:"size:20" json:"currency_code"`
	PaymentStatus string          `gorm:"size:30;index" json:"payment_status"`
	OrderStatus   string          `gorm:"size:30;index" json:"order_status"`
	ItemCount     int             `gorm:"default:0" json:"item_count"`
	PlacedAt      time.Time       `gorm:"index" json:"placed_at"`

	// Ecwid 原始数据 (PostgreSQL JSONB)
	EcwidRawData datatypes.JSON `gorm:"type:jsonb" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行
type OrderItem struct {
	BaseModel

	OrderID        int64           `gorm:"index;not null" json:"order_id"`
	EcwidProductID int64           `gorm:"index" json:"ecwid_product_id"`
	Name           string          `gorm:"size:255" json:"name"`
	SKU            string          `gorm:"size:100" json:"sku"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Quantity       int             `gorm:"default:1" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
