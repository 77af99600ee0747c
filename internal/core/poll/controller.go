// Package poll 实现周期性链刷新的轮询循环控制器
//
// 每个周期：现取当前后端查最新区块 → 解析目标合约接口 →
// 生成并注入交互界面。固定间隔，周期绝不重叠：计时器在上个
// 周期完全落定之后才重新武装，从不使用自由运行的 ticker。
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	pollconfig "github.com/weisyn/lens/internal/config/poll"
	"github.com/weisyn/lens/pkg/constants/events"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	polliface "github.com/weisyn/lens/pkg/interfaces/poll"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Controller 实现了 poll.Controller 接口
var _ polliface.Controller = (*Controller)(nil)

// Controller 轮询控制器
//
// 同一时刻至多一个活跃会话。新的 Start 先同步终止旧会话：
// 旧循环的取消令牌被触发并等待其退出，之后才建立新会话。
type Controller struct {
	interval    time.Duration
	forkManager chainstateiface.ForkManager
	synthesizer synthesisiface.Synthesizer
	generator   synthesisiface.SurfaceGenerator
	injector    sandboxiface.Injector
	session     sessioniface.Manager
	eventBus    eventiface.EventBus
	logger      log.Logger

	// lifecycleMu 串行化 Start/Stop：从观察旧会话到装入新会话
	// 之间不允许另一个 Start 插入，否则败者的循环会失去归属
	lifecycleMu sync.Mutex

	mu      sync.Mutex
	current *pollSession
}

// pollSession 单个轮询会话
//
// 每个会话持有全新的取消令牌；陈旧循环不可能观察到新令牌。
type pollSession struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// NewController 创建轮询控制器
func NewController(
	config *pollconfig.Config,
	forkManager chainstateiface.ForkManager,
	synthesizer synthesisiface.Synthesizer,
	generator synthesisiface.SurfaceGenerator,
	injector sandboxiface.Injector,
	session sessioniface.Manager,
	eventBus eventiface.EventBus,
	logger log.Logger,
) *Controller {
	return &Controller{
		interval:    config.GetInterval(),
		forkManager: forkManager,
		synthesizer: synthesizer,
		generator:   generator,
		injector:    injector,
		session:     session,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Start 启动轮询会话
//
// 已有活跃会话时先同步替换：旧会话的循环完全退出后新会话
// 才开始，不存在两个循环并行的窗口。
func (c *Controller) Start() (func(), error) {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	c.mu.Lock()
	previous := c.current
	c.mu.Unlock()
	if previous != nil {
		c.terminate(previous)
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &pollSession{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Infof("轮询会话启动: session=%s interval=%s", session.id, c.interval)
	}
	if c.eventBus != nil {
		c.eventBus.Publish(events.EventTypePollStarted, session.id)
	}
	metricSessions.Inc()

	go c.run(session)

	teardown := func() {
		c.terminate(session)
	}
	return teardown, nil
}

// Stop 停止当前活跃会话（无会话时为空操作）
func (c *Controller) Stop() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	c.mu.Lock()
	session := c.current
	c.mu.Unlock()
	if session != nil {
		c.terminate(session)
	}
}

// Active 返回是否存在活跃会话
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// SessionID 返回当前会话标识，无会话时为空串
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.id
}

// terminate 终止会话并等待其循环退出；幂等
func (c *Controller) terminate(session *pollSession) {
	session.stop.Do(func() {
		session.cancel()
		<-session.done

		c.mu.Lock()
		if c.current == session {
			c.current = nil
		}
		c.mu.Unlock()

		if c.logger != nil {
			c.logger.Infof("轮询会话停止: session=%s", session.id)
		}
		if c.eventBus != nil {
			c.eventBus.Publish(events.EventTypePollStopped, session.id)
		}
		metricSessions.Dec()
	})
	// 非首个调用者也等循环退出后才返回
	<-session.done
}

// run 会话主循环
//
// 启动即先跑一个周期，不等第一个间隔。计时器只在周期完全
// 落定后重新武装，慢周期自然推迟后续节奏而不是堆叠。
func (c *Controller) run(session *pollSession) {
	defer close(session.done)

	var cycle uint64
	for {
		cycle++
		c.runCycle(session, cycle)

		if session.ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(c.interval)
		select {
		case <-session.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runCycle 执行单个轮询周期
//
// 周期内失败吞掉并记日志，节奏不变。每个阻塞步骤之后检查
// 取消令牌：在途工作不被中断，但其结果不再生效。
func (c *Controller) runCycle(session *pollSession, cycle uint64) {
	start := time.Now()
	failed := false
	var block uint64

	defer func() {
		metricCycleSeconds.Observe(time.Since(start).Seconds())
		outcome := outcomeOK
		if failed {
			outcome = outcomeFailed
		}
		metricCycles.WithLabelValues(outcome).Inc()
		if c.eventBus != nil {
			c.eventBus.Publish(events.EventTypePollCycle, types.PollCycleEvent{
				SessionID: session.id,
				Cycle:     cycle,
				Block:     block,
				Failed:    failed,
				At:        time.Now(),
			})
		}
	}()

	// 1. 最新区块：后端每次现取，fork/unfork 可能发生在任意两步之间
	blockNumber, err := c.forkManager.Current().BlockNumber(session.ctx)
	if session.ctx.Err() != nil {
		return
	}
	if err != nil {
		failed = true
		if c.logger != nil {
			c.logger.Warnf("轮询周期取区块失败: session=%s cycle=%d err=%v", session.id, cycle, err)
		}
		return
	}
	block = blockNumber

	// 2. 目标地址：没有目标时这个周期只刷新区块
	address := c.session.Address()
	if address == "" {
		return
	}

	// 3. 接口合成（阶段内失败已降级，不上抛）
	iface, err := c.synthesizer.ResolveInterface(session.ctx, address)
	if session.ctx.Err() != nil {
		return
	}
	if err != nil {
		failed = true
		if c.logger != nil {
			c.logger.Warnf("轮询周期接口合成失败: session=%s cycle=%d addr=%s err=%v", session.id, cycle, address, err)
		}
		return
	}

	// 4. 空接口是终态结果（零字节码地址）：没有可调用的接口
	// 就没有界面，不触发生成外呼也不注入
	if iface.Empty() {
		return
	}

	// 5. 界面生成：失败当周期无界面，不重试
	surface, err := c.generator.Generate(session.ctx, iface)
	if session.ctx.Err() != nil {
		return
	}
	if err != nil {
		failed = true
		if c.logger != nil {
			c.logger.Warnf("轮询周期界面生成失败: session=%s cycle=%d addr=%s err=%v", session.id, cycle, address, err)
		}
		return
	}

	// 6. 注入：会话若已被终止，在途结果不落地
	if err := c.injector.Inject(session.ctx, surface); err != nil {
		failed = true
		if c.logger != nil {
			c.logger.Warnf("轮询周期注入失败: session=%s cycle=%d addr=%s err=%v", session.id, cycle, address, err)
		}
	}
}
