// Package types 定义链状态模式与状态覆盖类型
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChainMode 链状态后端的互斥模式
type ChainMode string

const (
	// ChainModeLive 直连实时链（初始模式）
	ChainModeLive ChainMode = "live"

	// ChainModeForked 叠加层模拟模式，读写走分叉会话
	ChainModeForked ChainMode = "forked"
)

// String 实现 fmt.Stringer
func (m ChainMode) String() string { return string(m) }

// AccountOverride 单个账户的状态覆盖
//
// 与 eth_call 的 state-override 参数对齐：字段为空则不覆盖对应维度。
// 分叉会话把叠加层的本地改动编成这个结构，让上游节点按改动后的
// 状态执行调用，执行语义本身始终留在外部引擎。
type AccountOverride struct {
	Balance   *hexutil.Big                `json:"balance,omitempty"`
	Nonce     *hexutil.Uint64             `json:"nonce,omitempty"`
	Code      hexutil.Bytes               `json:"code,omitempty"`
	StateDiff map[common.Hash]common.Hash `json:"stateDiff,omitempty"`
}

// StateOverride 按地址索引的覆盖集合
type StateOverride map[common.Address]AccountOverride

// Empty 返回覆盖集是否没有任何内容
func (s StateOverride) Empty() bool { return len(s) == 0 }

// CallMsg eth_call 的参数对象（JSON 形状与标准一致）
type CallMsg struct {
	From     *common.Address `json:"from,omitempty"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
}
