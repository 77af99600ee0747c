package poll

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// ===== 测试桩 =====

type fakeReader struct {
	block atomic.Uint64
}

func (r *fakeReader) BlockNumber(ctx context.Context) (uint64, error) {
	return r.block.Add(1), nil
}

func (r *fakeReader) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	return nil, nil
}

func (r *fakeReader) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *fakeReader) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	return 0, nil
}

func (r *fakeReader) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	return common.Hash{}, nil
}

func (r *fakeReader) CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	return nil, nil
}

type fakeForkManager struct {
	reader *fakeReader
}

func (m *fakeForkManager) Fork(ctx context.Context) (chainstateiface.ForkSession, error) {
	return nil, nil
}

func (m *fakeForkManager) Unfork(ctx context.Context) error { return nil }

func (m *fakeForkManager) Current() chainstateiface.StateReader { return m.reader }

func (m *fakeForkManager) Mode() types.ChainMode { return types.ChainModeLive }

func (m *fakeForkManager) Session() (chainstateiface.ForkSession, bool) { return nil, false }

type fakeSynthesizer struct {
	calls atomic.Int64
	err   error
	empty bool // 返回零字节码地址的终态结果
}

func (s *fakeSynthesizer) ResolveInterface(ctx context.Context, address string) (*types.ResolvedInterface, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.empty {
		return &types.ResolvedInterface{
			Address: address,
			ABI:     []types.AbiEntry{},
			Name:    types.UnknownContractName,
		}, nil
	}
	return &types.ResolvedInterface{
		Address: address,
		ABI:     []types.AbiEntry{{Type: "function", Name: "name", Signature: "name()"}},
		Name:    "Token",
	}, nil
}

type fakeGenerator struct {
	calls    atomic.Int64
	inFlight atomic.Int64
	overlap  atomic.Bool
	delay    time.Duration
	waitCtx  bool // 阻塞到上下文取消再返回（模拟慢在途请求）
}

func (g *fakeGenerator) Generate(ctx context.Context, iface *types.ResolvedInterface) (*types.GeneratedSurface, error) {
	g.calls.Add(1)
	if g.inFlight.Add(1) > 1 {
		g.overlap.Store(true)
	}
	defer g.inFlight.Add(-1)

	if g.waitCtx {
		<-ctx.Done()
	} else if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return &types.GeneratedSurface{
		Address:     iface.Address,
		Name:        iface.Name,
		Markup:      "<div>ok</div>",
		GeneratedAt: time.Now(),
	}, nil
}

type fakeInjector struct {
	injections atomic.Int64
}

func (i *fakeInjector) Inject(ctx context.Context, surface *types.GeneratedSurface) error {
	i.injections.Add(1)
	return nil
}

func (i *fakeInjector) Clear(ctx context.Context) error { return nil }

func (i *fakeInjector) Document() (string, uint64) { return "", 0 }

func (i *fakeInjector) HandleFor(token string) (transport.ProviderHandle, bool) { return nil, false }

type fakeSession struct {
	mu      sync.Mutex
	address string
}

func (s *fakeSession) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

func (s *fakeSession) SetAddress(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = address
	return nil
}

func (s *fakeSession) RegistryKey() string { return "" }

func (s *fakeSession) SetRegistryKey(ctx context.Context, key string) error { return nil }

func (s *fakeSession) GenerationKey() string { return "" }

func (s *fakeSession) SetGenerationKey(ctx context.Context, key string) error { return nil }

// ===== 测试 =====

type fixture struct {
	controller  *Controller
	synthesizer *fakeSynthesizer
	generator   *fakeGenerator
	injector    *fakeInjector
	session     *fakeSession
}

func newFixture(interval time.Duration, generator *fakeGenerator) *fixture {
	synthesizer := &fakeSynthesizer{}
	injector := &fakeInjector{}
	session := &fakeSession{address: "0x1111111111111111111111111111111111111111"}
	controller := &Controller{
		interval:    interval,
		forkManager: &fakeForkManager{reader: &fakeReader{}},
		synthesizer: synthesizer,
		generator:   generator,
		injector:    injector,
		session:     session,
	}
	return &fixture{
		controller:  controller,
		synthesizer: synthesizer,
		generator:   generator,
		injector:    injector,
		session:     session,
	}
}

func TestStartRunsFirstCycleImmediately(t *testing.T) {
	f := newFixture(time.Hour, &fakeGenerator{})

	teardown, err := f.controller.Start()
	require.NoError(t, err)
	defer teardown()

	// 间隔一小时，注入仍需立刻发生：首个周期不等计时器
	require.Eventually(t, func() bool {
		return f.injector.injections.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), f.injector.injections.Load())
}

func TestTeardownIsIdempotent(t *testing.T) {
	f := newFixture(time.Hour, &fakeGenerator{})

	teardown, err := f.controller.Start()
	require.NoError(t, err)

	teardown()
	teardown()
	teardown()

	assert.False(t, f.controller.Active())
	assert.Empty(t, f.controller.SessionID())
}

func TestStartSupersedesPreviousSession(t *testing.T) {
	f := newFixture(time.Hour, &fakeGenerator{})

	_, err := f.controller.Start()
	require.NoError(t, err)
	firstID := f.controller.SessionID()
	require.NotEmpty(t, firstID)

	// 再次 Start 先同步终止旧会话，新会话拿全新标识
	teardown, err := f.controller.Start()
	require.NoError(t, err)
	defer teardown()

	secondID := f.controller.SessionID()
	assert.NotEmpty(t, secondID)
	assert.NotEqual(t, firstID, secondID)
	assert.True(t, f.controller.Active())
}

func TestCyclesNeverOverlap(t *testing.T) {
	// 周期耗时远超间隔：计时器在周期落定后才武装，绝不堆叠
	generator := &fakeGenerator{delay: 30 * time.Millisecond}
	f := newFixture(time.Millisecond, generator)

	teardown, err := f.controller.Start()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.injector.injections.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	teardown()

	assert.False(t, generator.overlap.Load(), "周期发生了重叠")
}

func TestEmptyAddressSkipsSynthesis(t *testing.T) {
	f := newFixture(time.Millisecond, &fakeGenerator{})
	require.NoError(t, f.session.SetAddress(context.Background(), ""))

	teardown, err := f.controller.Start()
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	teardown()

	// 没有目标地址的周期只刷新区块，不走合成与注入
	assert.Zero(t, f.synthesizer.calls.Load())
	assert.Zero(t, f.injector.injections.Load())
}

func TestStaleResultsAreNotApplied(t *testing.T) {
	// 生成请求阻塞到会话被终止才返回：结果完成但不得落地
	generator := &fakeGenerator{waitCtx: true}
	f := newFixture(time.Hour, generator)

	teardown, err := f.controller.Start()
	require.NoError(t, err)

	// 等生成请求在途
	require.Eventually(t, func() bool {
		return generator.inFlight.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	teardown()

	assert.Zero(t, f.injector.injections.Load(), "陈旧周期的结果被注入了")
	assert.False(t, f.controller.Active())
}

func TestEmptyInterfaceSkipsGeneration(t *testing.T) {
	// 零字节码地址的终态结果：无可调用接口，不外呼生成也不注入
	f := newFixture(time.Millisecond, &fakeGenerator{})
	f.synthesizer.empty = true

	teardown, err := f.controller.Start()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.synthesizer.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	teardown()

	assert.Zero(t, f.generator.calls.Load())
	assert.Zero(t, f.injector.injections.Load())
}

func TestConcurrentStartsLeaveSingleSession(t *testing.T) {
	f := newFixture(time.Millisecond, &fakeGenerator{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.controller.Start()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.True(t, f.controller.Active())
	require.NotEmpty(t, f.controller.SessionID())

	// 一次 Stop 就该停下全部活动：并发启动不允许泄漏失主循环
	f.controller.Stop()
	require.False(t, f.controller.Active())

	settled := f.injector.injections.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, f.injector.injections.Load())
}

func TestFailingStageKeepsCadence(t *testing.T) {
	f := newFixture(time.Millisecond, &fakeGenerator{})
	f.synthesizer.err = assert.AnError

	teardown, err := f.controller.Start()
	require.NoError(t, err)

	// 阶段出错只记日志：循环照常走下一个周期
	require.Eventually(t, func() bool {
		return f.synthesizer.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	teardown()

	assert.Zero(t, f.injector.injections.Load())
}

func TestStopWithoutSessionIsNoop(t *testing.T) {
	f := newFixture(time.Hour, &fakeGenerator{})

	// 无会话时 Stop 不恐慌也不阻塞
	f.controller.Stop()
	assert.False(t, f.controller.Active())
}
