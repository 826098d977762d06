package widget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"ecwid_addon_v1_202609/internal/model"
)

// ==================== 测试辅助 ====================

type fakeSDK struct {
	mu           sync.Mutex
	native       bool
	cartErr      error
	cartCalls    int
	pageListener func(productID int64)
}

func (s *fakeSDK) NativeWidgetPresent() bool { return s.native }

func (s *fakeSDK) AddToCart(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCalls++
	return s.cartErr
}

func (s *fakeSDK) OnProductPageChange(fn func(productID int64)) {
	s.pageListener = fn
}

type fakeFetcher struct {
	mu    sync.Mutex
	items []model.RecommendedProduct
	err   error
	calls int
	// 非 nil 时 Fetch 阻塞到该通道关闭
	block chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, storeID string, productID int64) ([]model.RecommendedProduct, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	items, err := f.items, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return items, err
}

func sampleItems() []model.RecommendedProduct {
	return []model.RecommendedProduct{
		{EcwidProductID: 101, Name: "Ceramic Mug", Price: decimal.NewFromInt(15)},
		{EcwidProductID: 102, Name: "Tea Towel", Price: decimal.NewFromInt(9)},
	}
}

// ==================== 单元测试 ====================

func TestWidget_SuccessRendersItems(t *testing.T) {
	sdk := &fakeSDK{}
	fetcher := &fakeFetcher{items: sampleItems()}
	w := New(sdk, fetcher, true)

	if w.State() != StateIdle {
		t.Fatalf("初始状态应为 idle，实际: %s", w.State())
	}

	w.Load(context.Background(), "10001", 1)

	if w.State() != StateSuccess {
		t.Fatalf("取数成功后状态应为 success，实际: %s", w.State())
	}
	decision := w.Render()
	if !decision.ShouldRender {
		t.Fatalf("有结果应渲染，原因: %s", decision.Reason)
	}
	if len(decision.Items) != 2 {
		t.Fatalf("应渲染 2 条，实际 %d 条", len(decision.Items))
	}
}

func TestWidget_EmptyListRendersNothing(t *testing.T) {
	sdk := &fakeSDK{}
	fetcher := &fakeFetcher{items: []model.RecommendedProduct{}}
	w := New(sdk, fetcher, true)

	w.Load(context.Background(), "10001", 1)

	// 空结果是成功态，但什么都不画
	if w.State() != StateSuccess {
		t.Fatalf("空结果也是成功态，实际: %s", w.State())
	}
	if decision := w.Render(); decision.ShouldRender {
		t.Fatal("空结果不应渲染任何东西")
	}
}

func TestWidget_ErrorRendersNothing(t *testing.T) {
	sdk := &fakeSDK{}
	fetcher := &fakeFetcher{err: errors.New("backend unavailable")}
	w := New(sdk, fetcher, true)

	w.Load(context.Background(), "10001", 1)

	if w.State() != StateError {
		t.Fatalf("取数失败状态应为 error，实际: %s", w.State())
	}
	if decision := w.Render(); decision.ShouldRender {
		t.Fatal("出错不应渲染")
	}
	if w.LastError() == nil {
		t.Fatal("应保留最近一次失败")
	}
}

func TestWidget_DisabledRendersNothing(t *testing.T) {
	sdk := &fakeSDK{}
	fetcher := &fakeFetcher{items: sampleItems()}
	w := New(sdk, fetcher, false)

	w.Load(context.Background(), "10001", 1)

	if decision := w.Render(); decision.ShouldRender {
		t.Fatal("开关关闭时无论取数结果如何都不渲染")
	}
}

func TestWidget_NativeWidgetSuppresses(t *testing.T) {
	sdk := &fakeSDK{native: true}
	fetcher := &fakeFetcher{items: sampleItems()}
	w := New(sdk, fetcher, true)

	w.Load(context.Background(), "10001", 1)

	if decision := w.Render(); decision.ShouldRender {
		t.Fatal("宿主已有原生挂件时不应重复渲染")
	}
}

func TestWidget_IdleRendersNothing(t *testing.T) {
	w := New(&fakeSDK{}, &fakeFetcher{}, true)

	if decision := w.Render(); decision.ShouldRender {
		t.Fatal("尚未加载不应渲染")
	}
}

func TestWidget_StaleLoadDiscarded(t *testing.T) {
	sdk := &fakeSDK{}
	block := make(chan struct{})
	fetcher := &fakeFetcher{items: sampleItems(), block: block}
	w := New(sdk, fetcher, true)

	// 第一次 Load 卡在取数上
	done := make(chan struct{})
	go func() {
		w.Load(context.Background(), "10001", 1)
		close(done)
	}()

	// 等第一次进入 loading
	for w.State() != StateLoading {
	}

	// 第二次 Load 换了商品，立刻完成
	fetcher.mu.Lock()
	fetcher.block = nil
	fetcher.items = []model.RecommendedProduct{{EcwidProductID: 999, Name: "Newer"}}
	fetcher.mu.Unlock()
	w.Load(context.Background(), "10001", 2)

	// 放行第一次：它的结果应被丢弃
	close(block)
	<-done

	decision := w.Render()
	if !decision.ShouldRender || len(decision.Items) != 1 || decision.Items[0].EcwidProductID != 999 {
		t.Fatalf("迟到的旧结果应被丢弃，实际: %+v", decision.Items)
	}
}

func TestWidget_PageChangeTriggersLoad(t *testing.T) {
	sdk := &fakeSDK{}
	fetcher := &fakeFetcher{items: sampleItems()}
	w := New(sdk, fetcher, true)

	// 先有过一次加载，挂件记住了店铺
	w.Load(context.Background(), "10001", 1)

	// 宿主页面切换到另一个商品
	sdk.pageListener(2)

	if fetcher.calls != 2 {
		t.Fatalf("页面切换应触发再次取数，实际调用 %d 次", fetcher.calls)
	}
}

func TestWidget_AddToCartUnavailableSwallowed(t *testing.T) {
	sdk := &fakeSDK{cartErr: ErrCartUnavailable}
	w := New(sdk, &fakeFetcher{}, true)

	// 购物车 API 缺失静默处理
	if err := w.AddToCart(context.Background(), 101); err != nil {
		t.Fatalf("购物车不可用应静默，实际: %v", err)
	}

	// 其他错误照常冒泡
	sdk.cartErr = errors.New("network down")
	if err := w.AddToCart(context.Background(), 101); err == nil {
		t.Fatal("非购物车缺失的错误应冒泡")
	}
}

func TestWidget_ProductURL(t *testing.T) {
	w := New(&fakeSDK{}, &fakeFetcher{}, true)
	if got := w.ProductURL(101); got != "#!/p/101" {
		t.Fatalf("点击地址应为 hash 路由，实际: %s", got)
	}
}
