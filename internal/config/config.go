package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Ecwid    EcwidConfig
	Auth     AuthConfig
	Sync     SyncConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port        string
	Environment string // development / production
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN 拼接 gorm postgres 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// EcwidConfig 平台应用凭证
type EcwidConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL 必须与 Ecwid 开发者后台填写的完全一致
	RedirectURL string
	// AdminReturnURL 授权完成后跳回的插件管理页
	AdminReturnURL string
	// APIBase 留空用官方地址，测试时指向 mock
	APIBase  string
	TokenURL string
}

// AuthConfig 管理后台会话配置
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	// 初始管理员，仅账号表为空时生效；密码留空则不自动建号
	AdminUsername string
	AdminPassword string
}

// SyncConfig 同步配置
type SyncConfig struct {
	Enabled        bool
	OrderMaxPages  int // 订单镜像最多拉取页数，0 表示不限
	RecheckSeconds int // 触发后状态复查延迟
}

// Load 读取配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 默认值
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "ecwid_admin")
	v.SetDefault("database.dbname", "ecwid_addon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("auth.issuer", "ecwid-addon")
	v.SetDefault("auth.adminusername", "admin")
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.ordermaxpages", 5)
	v.SetDefault("sync.recheckseconds", 5)

	// 配置文件可缺省，全走环境变量
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			Environment: v.GetString("server.environment"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Ecwid: EcwidConfig{
			ClientID:       v.GetString("ecwid.clientid"),
			ClientSecret:   v.GetString("ecwid.clientsecret"),
			RedirectURL:    v.GetString("ecwid.redirecturl"),
			AdminReturnURL: v.GetString("ecwid.adminreturnurl"),
			APIBase:        v.GetString("ecwid.apibase"),
			TokenURL:       v.GetString("ecwid.tokenurl"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("auth.jwtsecret"),
			Issuer:        v.GetString("auth.issuer"),
			AdminUsername: v.GetString("auth.adminusername"),
			AdminPassword: v.GetString("auth.adminpassword"),
		},
		Sync: SyncConfig{
			Enabled:        v.GetBool("sync.enabled"),
			OrderMaxPages:  v.GetInt("sync.ordermaxpages"),
			RecheckSeconds: v.GetInt("sync.recheckseconds"),
		},
	}

	if cfg.Ecwid.ClientID == "" || cfg.Ecwid.ClientSecret == "" {
		return nil, fmt.Errorf("缺少 Ecwid 应用凭证 (ECWID_CLIENTID / ECWID_CLIENTSECRET)")
	}

	return cfg, nil
}
