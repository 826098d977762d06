package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig 运维后台会话配置
type JWTConfig struct {
	SecretKey       string        // 签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	Issuer          string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "ecwid-addon-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "ecwid-addon",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// AdminClaims 运维账号声明
// 只承载后台账号，不涉及商户店铺身份
type AdminClaims struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ==================== Token 生成 ====================

func generateToken(adminID int64, username, role, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		AdminID:  adminID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateTokenPair 生成 Access + Refresh Token 对
func GenerateTokenPair(adminID int64, username, role string) (accessToken, refreshToken string, err error) {
	accessToken, err = generateToken(adminID, username, role, "access", jwtConfig.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = generateToken(adminID, username, role, "refresh", jwtConfig.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ==================== Token 解析 ====================

// ParseToken 解析并校验 Token
func ParseToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyAdminID   = "admin_id"
	ContextKeyAdminName = "admin_name"
	ContextKeyAdminRole = "admin_role"
)

func unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
	c.Abort()
}

// JWTAuth 运维端点认证中间件
// 响应沿用统一的 {"success": false, "error": ...} 信封
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "未提供认证信息")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "认证格式错误，应为 Bearer {token}")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			unauthorized(c, "Token 无效或已过期")
			return
		}

		// Refresh Token 不能当 Access Token 用
		if claims.Subject != "access" {
			unauthorized(c, "Token 类型错误")
			return
		}

		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Set(ContextKeyAdminName, claims.Username)
		c.Set(ContextKeyAdminRole, claims.Role)

		c.Next()
	}
}

// RequireRole 角色校验中间件，置于 JWTAuth 之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyAdminRole)
		if !exists {
			unauthorized(c, "未获取到账号角色")
			return
		}

		adminRole := role.(string)
		for _, r := range roles {
			if adminRole == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "无权限访问"})
		c.Abort()
	}
}

// ==================== 辅助函数 ====================

// GetAdminID 从 Context 获取运维账号 ID
func GetAdminID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyAdminID); exists {
		return id.(int64)
	}
	return 0
}

// GetAdminName 从 Context 获取运维账号用户名
func GetAdminName(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyAdminName); exists {
		return name.(string)
	}
	return ""
}
