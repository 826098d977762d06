package resolver

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"
)

// 占位符哨兵：商户没改模板时脚本标签里就是这个字面量
const placeholderStoreID = "YOUR_STORE_ID"

// URL 参数名优先级 (先命中先赢)
var queryParamNames = []string{"storeId", "ecwid_store_id", "store_id"}

// ErrNoStoreID 七种来源全部未命中
// 调用方应引导用户手动输入店铺 ID，而不是当错误页处理
var ErrNoStoreID = errors.New("store id not resolvable from environment")

// ==================== 外部能力 ====================

// PlatformProbe 平台 SDK 探测能力
// 取代对全局对象的轮询：注入方给出一个带期限的就绪信号
type PlatformProbe interface {
	// Ready 等待 SDK 就绪，超时返回错误
	Ready(ctx context.Context) error
	// StoreID SDK 就绪后读取其声明的店铺 ID
	StoreID() string
}

// ConfigStore 本地持久化配置 (对应 localStorage 的 ecwid_store_id)
type ConfigStore interface {
	LoadStoreID(ctx context.Context) (string, error)
	SaveStoreID(ctx context.Context, storeID string) error
}

// ParentExchange 父窗口问询能力
// 取代 fire-and-forget 的 postMessage：请求-响应成对，可等待，带来源校验
type ParentExchange interface {
	// RequestStoreID 向父窗口发起一次问询，返回响应来源和店铺 ID
	RequestStoreID(ctx context.Context) (origin, storeID string, err error)
}

// ==================== 环境快照 ====================

// Env 一次解析所见的环境快照
// 解析对固定快照是确定性的：同样的输入永远给同样的结果
type Env struct {
	// 嵌入脚本标签上的 data-* 属性
	ScriptTagAttrs map[string]string

	// 当前页面 URL 查询参数
	QueryParams url.Values

	// document.referrer (仅嵌入 iframe 时参考)
	ReferrerURL string

	// iframe 自身 URL (仅嵌入时参考)
	FrameURL string

	// 是否处于嵌入 (iframe) 上下文
	Embedded bool
}

// ==================== 解析器 ====================

// Resolver 店铺 ID 解析器
// 七种来源按固定优先级依次尝试，第一个非空且非占位符的值胜出
type Resolver struct {
	probe    PlatformProbe
	config   ConfigStore
	exchange ParentExchange

	// 父窗口响应的来源白名单，空表示拒绝一切父窗口响应
	allowedOrigins map[string]bool

	// SDK 就绪等待的默认期限
	probeTimeout time.Duration
}

// Option 解析器选项
type Option func(*Resolver)

// WithPlatformProbe 注入 SDK 探测能力
func WithPlatformProbe(probe PlatformProbe) Option {
	return func(r *Resolver) { r.probe = probe }
}

// WithConfigStore 注入本地配置
func WithConfigStore(config ConfigStore) Option {
	return func(r *Resolver) { r.config = config }
}

// WithParentExchange 注入父窗口问询能力及来源白名单
func WithParentExchange(exchange ParentExchange, allowedOrigins ...string) Option {
	return func(r *Resolver) {
		r.exchange = exchange
		for _, origin := range allowedOrigins {
			r.allowedOrigins[origin] = true
		}
	}
}

// WithProbeTimeout 覆盖 SDK 就绪等待期限
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.probeTimeout = d }
}

// New 创建解析器
func New(opts ...Option) *Resolver {
	r := &Resolver{
		allowedOrigins: make(map[string]bool),
		probeTimeout:   time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 解析店铺 ID
// 返回值：店铺 ID + 命中来源名；全部未命中返回 ErrNoStoreID
func (r *Resolver) Resolve(ctx context.Context, env Env) (storeID, source string, err error) {
	// 1. 脚本标签属性 (拒绝模板占位符)
	if id := validID(env.ScriptTagAttrs["data-ecwid-store-id"]); id != "" {
		return r.remember(ctx, id, "script_tag")
	}

	// 2. 平台 SDK 全局对象
	if r.probe != nil {
		probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
		perr := r.probe.Ready(probeCtx)
		cancel()
		if perr == nil {
			if id := validID(r.probe.StoreID()); id != "" {
				return r.remember(ctx, id, "platform_global")
			}
		}
	}

	// 3. 当前页 URL 查询参数 (按参数名优先级)
	if id := fromQuery(env.QueryParams); id != "" {
		return r.remember(ctx, id, "query_params")
	}

	// 4. 上次会话持久化的值
	if r.config != nil {
		if saved, cerr := r.config.LoadStoreID(ctx); cerr == nil {
			if id := validID(saved); id != "" {
				return id, "stored_config", nil
			}
		}
	}

	// 5-7 仅在嵌入上下文中尝试
	if !env.Embedded {
		return "", "", ErrNoStoreID
	}

	// 5. referrer 的查询参数
	if ref, perr := url.Parse(env.ReferrerURL); perr == nil {
		if id := fromQuery(ref.Query()); id != "" {
			return r.remember(ctx, id, "referrer")
		}
	}

	// 6. iframe 自身 URL 的查询参数
	if frame, perr := url.Parse(env.FrameURL); perr == nil {
		if id := fromQuery(frame.Query()); id != "" {
			return r.remember(ctx, id, "frame_url")
		}
	}

	// 7. 父窗口问询 (可等待；仅接受白名单来源)
	if r.exchange != nil {
		origin, id, xerr := r.exchange.RequestStoreID(ctx)
		if xerr == nil {
			if !r.allowedOrigins[origin] {
				log.Printf("[Resolver] 丢弃非白名单来源 [%s] 的父窗口响应", origin)
			} else if id = validID(id); id != "" {
				return r.remember(ctx, id, "parent_frame")
			}
		}
	}

	return "", "", ErrNoStoreID
}

// remember 命中后把值写回本地配置，失败不影响解析结果
func (r *Resolver) remember(ctx context.Context, storeID, source string) (string, string, error) {
	if r.config != nil {
		if err := r.config.SaveStoreID(ctx, storeID); err != nil {
			log.Printf("[Resolver] 店铺 ID 持久化失败: %v", err)
		}
	}
	return storeID, source, nil
}

// validID 过滤空值和模板占位符
func validID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || id == placeholderStoreID {
		return ""
	}
	return id
}

func fromQuery(q url.Values) string {
	for _, name := range queryParamNames {
		if id := validID(q.Get(name)); id != "" {
			return id
		}
	}
	return ""
}
