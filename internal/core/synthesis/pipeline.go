package synthesis

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Pipeline 实现了 Synthesizer 接口
var _ synthesisiface.Synthesizer = (*Pipeline)(nil)

// Pipeline 合成管线入口
//
// 阶段按序执行，每阶段首个成功结果即采纳；阶段内失败降级：
//   - 注册表失败 → 落入字节码分析
//   - 零字节码 → 终态空结果 {abi:[], proxies:[], name:"Unknown Contract"}
//   - 代理检测失败 → 当前地址按终点处理
//   - 身份探测失败 → 兜底名称
// 管线本身只在外部前提缺失（后端不可用）时返回 error。
type Pipeline struct {
	config      *synthesisconfig.Config
	forkManager chainstateiface.ForkManager
	registry    synthesisiface.SourceRegistry
	analyzer    synthesisiface.BytecodeAnalyzer
	proxies     synthesisiface.ProxyResolver
	prober      synthesisiface.IdentityProber
	logger      log.Logger
}

// NewPipeline 创建合成管线
func NewPipeline(
	config *synthesisconfig.Config,
	forkManager chainstateiface.ForkManager,
	registry synthesisiface.SourceRegistry,
	analyzer synthesisiface.BytecodeAnalyzer,
	proxies synthesisiface.ProxyResolver,
	prober synthesisiface.IdentityProber,
	logger log.Logger,
) *Pipeline {
	return &Pipeline{
		config:      config,
		forkManager: forkManager,
		registry:    registry,
		analyzer:    analyzer,
		proxies:     proxies,
		prober:      prober,
		logger:      logger,
	}
}

// ResolveInterface 解析单个合约地址的可调用接口
func (p *Pipeline) ResolveInterface(ctx context.Context, address string) (*types.ResolvedInterface, error) {
	address = types.NormalizeAddress(address)

	resolved := &types.ResolvedInterface{
		Address: address,
		ABI:     []types.AbiEntry{},
		Name:    types.UnknownContractName,
	}

	// 代理链追踪：visited 集防环，跳数上限兜住检测失效
	target := address
	visited := map[string]struct{}{target: {}}
	maxHops := p.config.GetMaxProxyHops()

	for {
		entries, code, terminal, err := p.resolveSingle(ctx, target)
		if err != nil {
			return nil, err
		}
		resolved.ABI = entries
		if terminal {
			// 零字节码是终态非错误
			return resolved, nil
		}

		if !p.config.IsProxyFollowEnabled() || len(resolved.Proxies) >= maxHops {
			break
		}

		hop, isProxy, err := p.proxies.Detect(ctx, target, code)
		if err != nil {
			metricStage.WithLabelValues(stageProxy, outcomeFailed).Inc()
			if p.logger != nil {
				p.logger.Warnf("代理检测失败: addr=%s err=%v", target, err)
			}
			break
		}
		if !isProxy {
			break
		}
		metricStage.WithLabelValues(stageProxy, outcomeOK).Inc()

		impl := types.NormalizeAddress(hop.Implementation)
		if _, looped := visited[impl]; looped {
			if p.logger != nil {
				p.logger.Warnf("代理链成环，终止追踪: addr=%s impl=%s", target, impl)
			}
			resolved.Proxies = append(resolved.Proxies, *hop)
			break
		}
		visited[impl] = struct{}{}
		resolved.Proxies = append(resolved.Proxies, *hop)
		target = impl
	}

	// 身份探测对原始地址执行：代理的对外身份在代理自身的存储里
	resolved.Name = p.prober.ProbeName(ctx, address, resolved.ABI)
	if resolved.Name != types.UnknownContractName {
		metricStage.WithLabelValues(stageProbe, outcomeOK).Inc()
	} else {
		metricStage.WithLabelValues(stageProbe, outcomeFailed).Inc()
	}

	return resolved, nil
}

// resolveSingle 对单个地址执行注册表查询与字节码分析
//
// 返回：接口条目、原始字节码（供代理检测）、是否零字节码终态。
func (p *Pipeline) resolveSingle(ctx context.Context, address string) ([]types.AbiEntry, []byte, bool, error) {
	// 字节码先取：零字节码地址直接终态，不浪费注册表调用
	code, err := p.forkManager.Current().GetCode(ctx, common.HexToAddress(address))
	if err != nil {
		return nil, nil, false, err
	}
	if len(code) == 0 {
		return []types.AbiEntry{}, nil, true, nil
	}

	// 1. 验证源注册表（有凭据才启用）
	if p.registry.Enabled() {
		entries, err := p.registry.LookupABI(ctx, address)
		if err == nil && len(entries) > 0 {
			metricStage.WithLabelValues(stageRegistry, outcomeOK).Inc()
			return entries, code, false, nil
		}
		metricStage.WithLabelValues(stageRegistry, outcomeFailed).Inc()
		if p.logger != nil {
			p.logger.Debugf("注册表查询未命中，落入字节码分析: addr=%s err=%v", address, err)
		}
	}

	// 2. 字节码启发式恢复
	entries := p.analyzer.Analyze(code)
	if entries == nil {
		entries = []types.AbiEntry{}
	}
	metricStage.WithLabelValues(stageBytecode, outcomeOK).Inc()
	return entries, code, false, nil
}
