// Package chainstate 提供链状态后端与分叉管理的公共接口定义
//
// 🔀 **链状态与分叉管理 (Chain State & Fork Manager)**
//
// 本包定义 lens 宿主的双模链状态访问：live 模式直连实时链，
// forked 模式在叠加层上模拟改动。模式互斥，由 ForkManager 独占持有。
//
// 🎯 **核心职责**：
// - 统一的链上读接口（StateReader），两种模式同形
// - fork/unfork 状态机：fork 幂等替换，unfork 无分叉时为无害空操作
// - Current() 是外界感知模式的唯一途径
//
// ⚠️ **核心约束**：
// - 下游（轮询、合成）每次使用都必须现取 Current()，绝不能把
//   后端引用缓存跨过阻塞调用——fork/unfork 可能发生在两次读之间
// - 执行语义始终留在外部引擎：分叉会话只维护状态叠加层
//
// 📞 **调用方**：
// - poll：每个周期取最新区块
// - synthesis：字节码、存储槽与身份探测读取
package chainstate

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/lens/pkg/types"
)

// StateReader 链上读接口（live 与 forked 同形）
type StateReader interface {
	// BlockNumber 返回最新区块号（forked 模式为基准区块号）
	BlockNumber(ctx context.Context) (uint64, error)

	// GetCode 返回账户的部署字节码；外部账户返回空切片
	GetCode(ctx context.Context, addr common.Address) ([]byte, error)

	// GetBalance 返回账户余额
	GetBalance(ctx context.Context, addr common.Address) (*big.Int, error)

	// GetNonce 返回账户 nonce
	GetNonce(ctx context.Context, addr common.Address) (uint64, error)

	// GetStorageAt 返回存储槽的值
	GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error)

	// CallContract 执行只读合约调用
	CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error)
}

// StateWriter 分叉会话的本地改动接口
//
// 改动只落在叠加层，实时链完全不受影响。
type StateWriter interface {
	// SetBalance 覆盖账户余额
	SetBalance(ctx context.Context, addr common.Address, balance *big.Int) error

	// SetCode 覆盖账户字节码
	SetCode(ctx context.Context, addr common.Address, code []byte) error

	// SetStorageAt 覆盖单个存储槽
	SetStorageAt(ctx context.Context, addr common.Address, slot, value common.Hash) error

	// Transfer 在叠加层内做一次余额划转（含 nonce 递增）
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error
}

// ForkSession 分叉会话：读走叠加层，写留在本地
type ForkSession interface {
	StateReader
	StateWriter

	// BaseBlock 会话创建时固定的基准区块号
	BaseBlock() uint64

	// Active 会话是否仍被管理器持有
	// 被替换或 unfork 后为 false，引用被释放而非主动关闭
	Active() bool

	// Overrides 把叠加层改动编成 eth_call 的 state-override 集合
	Overrides() types.StateOverride
}

// ForkManager 分叉管理器接口
type ForkManager interface {
	// Fork 进入（或替换）分叉模式
	//
	// 幂等替换：已处于 forked 时丢弃旧会话、固定新的基准区块
	// 并建立全新会话，绝不叠加出第二个会话。
	Fork(ctx context.Context) (ForkSession, error)

	// Unfork 回到实时模式
	// 释放会话引用即可，无分叉时是无害空操作，不是错误。
	Unfork(ctx context.Context) error

	// Current 返回当前模式对应的后端
	// 外界感知模式的唯一途径；每次使用现取，不得缓存
	Current() StateReader

	// Mode 返回当前模式（诊断用途）
	Mode() types.ChainMode

	// Session 返回当前分叉会话；live 模式下返回 nil, false
	Session() (ForkSession, bool)
}

// SimulationEngine 外部执行引擎接口
//
// 分叉会话把合约调用委托给引擎执行：引擎收到调用参数、基准
// 区块和叠加层的 state-override 集合。默认实现经传输桥把
// 调用交给上游节点（eth_call + overrides），执行语义不在宿主内。
type SimulationEngine interface {
	// Execute 在基准区块与给定覆盖集上执行只读调用
	Execute(ctx context.Context, msg types.CallMsg, baseBlock uint64, overrides types.StateOverride) ([]byte, error)
}
