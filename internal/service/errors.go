package service

// ==================== 错误定义 ====================

// SvcError 业务错误
type SvcError string

func (e SvcError) Error() string { return string(e) }

const (
	// ErrMissingStoreID 未提供 store_id，调用方应引导用户手动输入
	ErrMissingStoreID SvcError = "missing store id"

	// ErrStoreNotFound 店铺不存在
	ErrStoreNotFound SvcError = "store not found"

	// ErrOAuthSetupRequired 未授权或授权失效
	// 错误文案固定包含 "OAuth setup"，前端据此子串跳转授权引导页
	ErrOAuthSetupRequired SvcError = "OAuth setup required"

	// ErrSyncAlreadyRunning 同步进行中
	ErrSyncAlreadyRunning SvcError = "sync already running"

	// ErrInvalidCredentials 运维账号或密码错误
	// 故意不区分两种情况，防止用户名枚举
	ErrInvalidCredentials SvcError = "invalid username or password"

	// ErrAccountDisabled 运维账号已停用
	ErrAccountDisabled SvcError = "account disabled"

	// ErrInvalidToken Token 无效或类型不符
	ErrInvalidToken SvcError = "invalid token"
)
