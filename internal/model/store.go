package model

import (
	"time"
)

// Store 状态常量
const (
	StoreStatusPending  = 0 // 待授权
	StoreStatusActive   = 1 // 正常
	StoreStatusInactive = 2 // 已停用
)

// Token 状态常量
const (
	TokenStatusValid   = "valid"        // 有效
	TokenStatusExpired = "expired"      // 已过期
	TokenStatusInvalid = "auth_invalid" // 需重新授权
)

// Store 商户店铺
// 每个接入插件的 Ecwid 店铺一条记录，storeId 为平台侧唯一标识
type Store struct {
	BaseModel
	AuditMixin

	// 1. 核心身份
	// EcwidStoreID 对应 Ecwid 平台的 store_id，区别于本表主键 ID
	EcwidStoreID string `gorm:"size:32;uniqueIndex;not null"`
	StoreName    string `gorm:"size:100"`
	StoreURL     string `gorm:"size:255"`
	AccountEmail string `gorm:"size:100"`
	CurrencyCode string `gorm:"size:20"`

	// 2. 镜像统计
	ProductCount  int `gorm:"default:0"` // 已镜像商品数
	CategoryCount int `gorm:"default:0"` // 已镜像分类数

	// 3. 同步状态
	// IsSynced 首次全量镜像完成后置 true
	IsSynced     bool       `gorm:"default:false"`
	SyncRunning  bool       `gorm:"default:false;comment:同步进行中"`
	LastSyncAt   *time.Time `gorm:"comment:最后同步时间"`
	LastSyncErr  string     `gorm:"type:text;comment:最后同步错误"`
	Status       int        `gorm:"default:0;comment:状态 0-待授权 1-正常 2-已停用"`

	// 4. API Token
	// 周期检测 token 是否过期
	TokenStatus    string    `gorm:"index;size:20;default:'auth_invalid'"`
	AccessToken    string    `gorm:"size:255"`
	RefreshToken   string    `gorm:"size:255"`
	TokenScopes    string    `gorm:"size:255"`
	TokenExpiresAt time.Time // Token 具体的过期时间点

	// 5. 关联关系
	// 推荐设置 (Has One)，以 StoreID 为外键
	Settings *RecommendationSettings `gorm:"foreignKey:StoreID;references:EcwidStoreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"settings,omitempty"`

	// 商品镜像 (Has Many)
	// references 指向本表的 EcwidStoreID，Product 表存的是平台侧 ID
	Products []Product `gorm:"foreignKey:StoreID;references:EcwidStoreID" json:"products,omitempty"`
}

// Authenticated 判断店铺当前是否持有可用授权
func (s *Store) Authenticated() bool {
	if s == nil {
		return false
	}
	return s.TokenStatus == TokenStatusValid && s.AccessToken != "" && time.Now().Before(s.TokenExpiresAt)
}

// StoreProfile 对外展示的店铺概要 (不含 Token 等敏感字段)
type StoreProfile struct {
	EcwidStoreID string `json:"ecwid_store_id"`
	StoreName    string `json:"store_name"`
	StoreURL     string `json:"store_url"`
	AccountEmail string `json:"account_email"`
	CurrencyCode string `json:"currency_code"`
	IsSynced     bool   `json:"is_synced"`
}

// Profile 导出概要
func (s *Store) Profile() *StoreProfile {
	if s == nil {
		return nil
	}
	return &StoreProfile{
		EcwidStoreID: s.EcwidStoreID,
		StoreName:    s.StoreName,
		StoreURL:     s.StoreURL,
		AccountEmail: s.AccountEmail,
		CurrencyCode: s.CurrencyCode,
		IsSynced:     s.IsSynced,
	}
}

func (Store) TableName() string {
	return "stores"
}
