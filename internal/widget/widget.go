package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 状态机 ====================

// State 挂件加载状态
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ==================== 外部能力 ====================

// ErrCartUnavailable 宿主购物车 API 不可用
var ErrCartUnavailable = errors.New("host cart api unavailable")

// HostSDK 宿主店面 SDK 能力
// 页面事件、原生挂件探测、购物车均委托给宿主
type HostSDK interface {
	// NativeWidgetPresent 宿主页面已有同类原生挂件 (避免重复 UI)
	NativeWidgetPresent() bool

	// AddToCart 委托宿主加购；API 缺失时返回 ErrCartUnavailable
	AddToCart(ctx context.Context, productID int64, quantity int) error

	// OnProductPageChange 注册商品页切换监听
	OnProductPageChange(fn func(productID int64))
}

// Fetcher 推荐列表获取能力
type Fetcher interface {
	Fetch(ctx context.Context, storeID string, productID int64) ([]model.RecommendedProduct, error)
}

// ==================== 挂件 ====================

// Widget 店面推荐挂件
// 状态流转：idle → loading → success | error
type Widget struct {
	sdk     HostSDK
	fetcher Fetcher

	// 功能总开关 (来自推荐设置)
	enabled bool

	mu         sync.Mutex
	state      State
	storeID    string
	productID  int64
	items      []model.RecommendedProduct
	lastErr    error
	generation int // 代际计数：旧请求的迟到结果直接丢弃
}

// New 创建挂件
// 注册商品页切换监听：有效的 (store, product) 对出现即进入加载
func New(sdk HostSDK, fetcher Fetcher, enabled bool) *Widget {
	w := &Widget{
		sdk:     sdk,
		fetcher: fetcher,
		enabled: enabled,
		state:   StateIdle,
	}
	sdk.OnProductPageChange(func(productID int64) {
		w.mu.Lock()
		storeID := w.storeID
		w.mu.Unlock()
		if storeID != "" && productID > 0 {
			w.Load(context.Background(), storeID, productID)
		}
	})
	return w
}

// State 当前状态
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Load 进入加载并同步取数
// 同一挂件的并发 Load 以最后一次为准，先前请求的结果作废
func (w *Widget) Load(ctx context.Context, storeID string, productID int64) {
	if storeID == "" || productID <= 0 {
		return
	}

	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.state = StateLoading
	w.storeID = storeID
	w.productID = productID
	w.mu.Unlock()

	items, err := w.fetcher.Fetch(ctx, storeID, productID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		// 期间有更新的 Load，丢弃本次结果
		return
	}
	if err != nil {
		w.state = StateError
		w.lastErr = err
		w.items = nil
		return
	}
	w.state = StateSuccess
	w.lastErr = nil
	w.items = items
}

// ==================== 渲染决策 ====================

// RenderDecision 渲染决策
type RenderDecision struct {
	ShouldRender bool
	Items        []model.RecommendedProduct
	// 不渲染时的原因 (调试用)
	Reason string
}

// Render 计算当前应渲染的内容
// 不渲染的情况：开关关闭 / 宿主已有原生挂件 / 尚未加载 / 出错 / 空结果
// 空结果就是什么都不画，不出空态提示
func (w *Widget) Render() RenderDecision {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.enabled {
		return RenderDecision{Reason: "feature disabled"}
	}
	if w.sdk.NativeWidgetPresent() {
		return RenderDecision{Reason: "native widget present"}
	}

	switch w.state {
	case StateIdle, StateLoading:
		return RenderDecision{Reason: w.state.String()}
	case StateError:
		return RenderDecision{Reason: "fetch failed"}
	}

	if len(w.items) == 0 {
		return RenderDecision{Reason: "empty result"}
	}

	items := make([]model.RecommendedProduct, len(w.items))
	copy(items, w.items)
	return RenderDecision{ShouldRender: true, Items: items}
}

// ProductURL 点击跳转地址 (店面的 hash 路由约定)
func (w *Widget) ProductURL(productID int64) string {
	return fmt.Sprintf("#!/p/%d", productID)
}

// AddToCart 委托宿主加购
// 购物车 API 不可用时静默吞掉，挂件不自己实现加购
func (w *Widget) AddToCart(ctx context.Context, productID int64) error {
	err := w.sdk.AddToCart(ctx, productID, 1)
	if errors.Is(err, ErrCartUnavailable) {
		return nil
	}
	return err
}

// LastError 最近一次失败 (渲染层显示重试按钮用)
func (w *Widget) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
