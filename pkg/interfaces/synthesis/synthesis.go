// Package synthesis 提供合约接口合成管线的公共接口定义
//
// 🧬 **接口合成管线 (Interface Synthesis Pipeline)**
//
// 本包定义从合约地址恢复可调用接口并产出交互界面的管线：
// 验证源查询 → 字节码选择器恢复 → 代理链检测 → 身份探测 → 界面生成。
//
// 🎯 **核心职责**：
// - 按阶段降级：任一阶段失败产出降级结果（空 ABI、兜底名称、
//   空代理链），管线本身不向调用方抛错
// - 零字节码地址是终态非错误：{abi:[], proxies:[], name:"Unknown Contract"}
// - 身份探测失败是预期内情况，永远回退占位名
//
// ⚠️ **核心约束**：
// - 字节码分析按指令数从上界遍历，不追踪动态跳转目标
// - 代理链追踪必须在环路或跳数上限处终止
// - 生成服务未产出内容时该周期无界面，不自动重试
package synthesis

import (
	"context"

	"github.com/weisyn/lens/pkg/types"
)

// Synthesizer 合成管线入口
type Synthesizer interface {
	// ResolveInterface 解析单个合约地址的可调用接口
	//
	// 返回：
	//   - *types.ResolvedInterface: 解析结果，失败阶段对应维度降级
	//   - error: 仅在管线外部前提缺失时返回（如后端不可用）；
	//     阶段内失败不会以 error 形式上抛
	ResolveInterface(ctx context.Context, address string) (*types.ResolvedInterface, error)
}

// SourceRegistry 验证源 ABI 注册表（可选，按 API 凭据启用）
type SourceRegistry interface {
	// LookupABI 查询已验证合约的 ABI
	// 未验证或注册表未配置时返回错误，管线落入字节码分析
	LookupABI(ctx context.Context, address string) ([]types.AbiEntry, error)

	// Enabled 注册表是否已配置凭据
	Enabled() bool
}

// BytecodeAnalyzer 部署字节码的启发式接口恢复
type BytecodeAnalyzer interface {
	// Analyze 从字节码派发表恢复选择器条目
	// 线性按指令遍历，PUSH 立即数随行跳过，绝不跟随动态跳转
	Analyze(code []byte) []types.AbiEntry
}

// ProxyResolver 已知代理模式检测与链式解析
type ProxyResolver interface {
	// Detect 检测单跳代理（EIP-1167 / EIP-1967 / beacon / zeppelin）
	// 未命中任何模式时返回 nil, false
	Detect(ctx context.Context, address string, code []byte) (*types.ProxyHop, bool, error)
}

// IdentityProber 合约身份探测
type IdentityProber interface {
	// ProbeName 在恢复出的接口中寻找零参 name 类只读函数并调用
	//
	// 任何失败（revert、函数不存在、解码失败）都回退
	// types.UnknownContractName；本方法从不返回错误。
	ProbeName(ctx context.Context, address string, entries []types.AbiEntry) string
}

// SurfaceGenerator 外部生成服务客户端
type SurfaceGenerator interface {
	// Generate 携带解析结果请求一次界面生成
	//
	// 响应按 chat-completion 形状解析，取第一个 choice 的消息
	// 内容作为标记文本；内容缺失返回 *types.GenerationError。
	Generate(ctx context.Context, iface *types.ResolvedInterface) (*types.GeneratedSurface, error)
}
