package model

import "time"

// 运维后台角色
const (
	AdminRoleAdmin    = "admin"    // 可删店铺、建账号
	AdminRoleOperator = "operator" // 只读 + 日常运维
)

// AdminUser 运维后台账号
// 与商户无关，只用于 /api/stores 这类运维端点的登录
type AdminUser struct {
	BaseModel

	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Email    string `gorm:"size:100" json:"email"`

	Role     string `gorm:"size:20;default:'operator'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
