package resolver

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"
)

// ==================== 测试辅助 ====================

type fakeProbe struct {
	ready   bool
	storeID string
}

func (p *fakeProbe) Ready(ctx context.Context) error {
	if p.ready {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *fakeProbe) StoreID() string { return p.storeID }

type memConfig struct {
	storeID string
	saves   int
}

func (c *memConfig) LoadStoreID(ctx context.Context) (string, error) {
	return c.storeID, nil
}

func (c *memConfig) SaveStoreID(ctx context.Context, storeID string) error {
	c.storeID = storeID
	c.saves++
	return nil
}

type fakeExchange struct {
	origin  string
	storeID string
	err     error
}

func (e *fakeExchange) RequestStoreID(ctx context.Context) (string, string, error) {
	return e.origin, e.storeID, e.err
}

func queryOf(raw string) url.Values {
	q, _ := url.ParseQuery(raw)
	return q
}

// ==================== 单元测试 ====================

func TestResolve_ScriptTagWins(t *testing.T) {
	r := New(WithConfigStore(&memConfig{storeID: "77777"}))

	id, source, err := r.Resolve(context.Background(), Env{
		ScriptTagAttrs: map[string]string{"data-ecwid-store-id": "10001"},
		QueryParams:    queryOf("storeId=20002"),
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "10001" || source != "script_tag" {
		t.Fatalf("脚本标签应最优先，实际: %s (%s)", id, source)
	}
}

func TestResolve_PlaceholderFallsThrough(t *testing.T) {
	// 商户没改模板：标签里是占位符，真实 ID 在 URL 参数里
	r := New()

	id, source, err := r.Resolve(context.Background(), Env{
		ScriptTagAttrs: map[string]string{"data-ecwid-store-id": "YOUR_STORE_ID"},
		QueryParams:    queryOf("storeId=555"),
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "555" || source != "query_params" {
		t.Fatalf("占位符应被跳过，命中 URL 参数，实际: %s (%s)", id, source)
	}
}

func TestResolve_QueryParamPriority(t *testing.T) {
	r := New()

	// 三个参数名同时存在时 storeId 优先
	id, _, err := r.Resolve(context.Background(), Env{
		QueryParams: queryOf("store_id=3&ecwid_store_id=2&storeId=1"),
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "1" {
		t.Fatalf("storeId 参数应优先，实际: %s", id)
	}
}

func TestResolve_ProbeBeforeQuery(t *testing.T) {
	r := New(WithPlatformProbe(&fakeProbe{ready: true, storeID: "30003"}))

	id, source, err := r.Resolve(context.Background(), Env{
		QueryParams: queryOf("storeId=20002"),
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "30003" || source != "platform_global" {
		t.Fatalf("SDK 全局对象应先于 URL 参数，实际: %s (%s)", id, source)
	}
}

func TestResolve_ProbeTimeoutFallsThrough(t *testing.T) {
	// SDK 永不就绪：限期后落到下一来源
	r := New(
		WithPlatformProbe(&fakeProbe{ready: false}),
		WithProbeTimeout(10*time.Millisecond),
	)

	id, source, err := r.Resolve(context.Background(), Env{
		QueryParams: queryOf("storeId=20002"),
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "20002" || source != "query_params" {
		t.Fatalf("探测超时应继续后续来源，实际: %s (%s)", id, source)
	}
}

func TestResolve_StoredConfig(t *testing.T) {
	cfg := &memConfig{storeID: "40004"}
	r := New(WithConfigStore(cfg))

	id, source, err := r.Resolve(context.Background(), Env{})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "40004" || source != "stored_config" {
		t.Fatalf("应命中本地配置，实际: %s (%s)", id, source)
	}
	// 命中已存值不应重复写回
	if cfg.saves != 0 {
		t.Fatalf("stored_config 命中不应写回，写了 %d 次", cfg.saves)
	}
}

func TestResolve_RemembersHit(t *testing.T) {
	cfg := &memConfig{}
	r := New(WithConfigStore(cfg))

	if _, _, err := r.Resolve(context.Background(), Env{
		QueryParams: queryOf("storeId=555"),
	}); err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if cfg.storeID != "555" || cfg.saves != 1 {
		t.Fatalf("命中应持久化一次，实际: %q / %d 次", cfg.storeID, cfg.saves)
	}
}

func TestResolve_EmbeddedOnlySources(t *testing.T) {
	env := Env{
		ReferrerURL: "https://store.example.com/admin?storeId=60006",
	}

	// 非嵌入上下文不看 referrer
	r := New()
	if _, _, err := r.Resolve(context.Background(), env); !errors.Is(err, ErrNoStoreID) {
		t.Fatalf("非嵌入上下文应解析失败，实际: %v", err)
	}

	// 嵌入上下文命中 referrer
	env.Embedded = true
	id, source, err := r.Resolve(context.Background(), env)
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "60006" || source != "referrer" {
		t.Fatalf("应命中 referrer，实际: %s (%s)", id, source)
	}
}

func TestResolve_FrameURL(t *testing.T) {
	r := New()

	id, source, err := r.Resolve(context.Background(), Env{
		Embedded: true,
		FrameURL: "https://addon.example.com/widget?ecwid_store_id=70007",
	})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "70007" || source != "frame_url" {
		t.Fatalf("应命中 iframe URL，实际: %s (%s)", id, source)
	}
}

func TestResolve_ParentExchangeOriginAllowlist(t *testing.T) {
	// 非白名单来源的响应直接丢弃
	r := New(WithParentExchange(
		&fakeExchange{origin: "https://evil.example.com", storeID: "80008"},
		"https://my.ecwid.com",
	))
	if _, _, err := r.Resolve(context.Background(), Env{Embedded: true}); !errors.Is(err, ErrNoStoreID) {
		t.Fatalf("非白名单来源应被拒绝，实际: %v", err)
	}

	// 白名单来源正常接受
	r = New(WithParentExchange(
		&fakeExchange{origin: "https://my.ecwid.com", storeID: "80008"},
		"https://my.ecwid.com",
	))
	id, source, err := r.Resolve(context.Background(), Env{Embedded: true})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if id != "80008" || source != "parent_frame" {
		t.Fatalf("白名单来源应被接受，实际: %s (%s)", id, source)
	}
}

func TestResolve_AllSourcesMiss(t *testing.T) {
	r := New(
		WithPlatformProbe(&fakeProbe{ready: true, storeID: ""}),
		WithConfigStore(&memConfig{}),
		WithProbeTimeout(10*time.Millisecond),
	)

	_, _, err := r.Resolve(context.Background(), Env{
		ScriptTagAttrs: map[string]string{"data-ecwid-store-id": "YOUR_STORE_ID"},
		QueryParams:    queryOf("foo=bar"),
		Embedded:       true,
	})
	if !errors.Is(err, ErrNoStoreID) {
		t.Fatalf("全部未命中应返回 ErrNoStoreID，实际: %v", err)
	}
}
