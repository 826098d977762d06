package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ==================== 审计上下文 ====================

type auditActorKey struct{}

// AuditActor 操作人信息，随 request context 传到 GORM 回调
type AuditActor struct {
	AdminID  int64
	Username string
}

// WithAuditActor 注入操作人到 context
func WithAuditActor(ctx context.Context, adminID int64, username string) context.Context {
	return context.WithValue(ctx, auditActorKey{}, &AuditActor{
		AdminID:  adminID,
		Username: username,
	})
}

// AuditActorID 从 context 取操作人 ID，无登录态返回 0
func AuditActorID(ctx context.Context) int64 {
	if actor, ok := ctx.Value(auditActorKey{}).(*AuditActor); ok {
		return actor.AdminID
	}
	return 0
}

// ==================== Gin 中间件 ====================

// AuditContext 审计上下文中间件
// 把 JWTAuth 解析出的运维账号塞进 request context，写库时落 CreatedBy/UpdatedBy
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminID := GetAdminID(c); adminID > 0 {
			ctx := WithAuditActor(c.Request.Context(), adminID, GetAdminName(c))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 注册 GORM 审计回调
// Create 填 CreatedBy + UpdatedBy，Update 只动 UpdatedBy；
// 商户侧无登录态的写入 (镜像同步、埋点) actor 为 0，直接跳过
func RegisterAuditCallbacks(db *gorm.DB) {
	db.Callback().Create().Before("gorm:create").Register("audit:create", auditCallback("CreatedBy", "UpdatedBy"))
	db.Callback().Update().Before("gorm:update").Register("audit:update", auditCallback("UpdatedBy"))
}

func auditCallback(fields ...string) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		adminID := AuditActorID(tx.Statement.Context)
		if adminID == 0 {
			return
		}
		for _, field := range fields {
			setAuditField(tx, field, adminID)
		}
	}
}

// setAuditField 按字段名写入审计值，字段不存在 (模型未挂 AuditMixin) 则忽略
func setAuditField(tx *gorm.DB, fieldName string, value int64) {
	if tx.Statement.Schema == nil {
		return
	}

	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(tx.Statement.Context, tx.Statement.ReflectValue); isZero {
			_ = field.Set(tx.Statement.Context, tx.Statement.ReflectValue, value)
		}
	case reflect.Slice:
		// 批量插入逐行填
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			rv := tx.Statement.ReflectValue.Index(i)
			if _, isZero := field.ValueOf(tx.Statement.Context, rv); isZero {
				_ = field.Set(tx.Statement.Context, rv, value)
			}
		}
	}
}
