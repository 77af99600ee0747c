// Package types provides shared type definitions for the lens host.
package types

import (
	"strings"
	"time"
)

// ===== 接口合成结果 =====

// UnknownContractName 身份探测失败时使用的兜底名称
const UnknownContractName = "Unknown Contract"

// ResolvedInterface 合成管线对单个合约地址的解析结果
//
// 一旦返回即视为不可变。ABI 可能是部分结果：启发式字节码分析
// 只能恢复选择器（可选地附带猜测的签名），拿不到参数类型。
type ResolvedInterface struct {
	Address string     `json:"address"`           // 目标合约地址（0x 前缀十六进制）
	ABI     []AbiEntry `json:"abi"`               // 有序接口条目；空切片表示无可调用接口
	Proxies []ProxyHop `json:"proxies,omitempty"` // 检测到的代理跳数，按解析顺序
	Name    string     `json:"name"`              // 身份探测结果，失败时为 UnknownContractName
}

// Empty 返回该结果是否为空接口（零字节码地址的终态输出）
func (r *ResolvedInterface) Empty() bool {
	return len(r.ABI) == 0
}

// AbiEntry 单个接口条目（函数或事件）
//
// 来源决定完整度：验证源 ABI 条目带完整的输入输出描述；
// 字节码恢复的条目只有选择器，Recovered 为 false 时 Name 是占位名。
type AbiEntry struct {
	Type            string     `json:"type"`                      // "function" | "event" | "constructor" | ...
	Name            string     `json:"name"`                      // 条目名；未恢复时形如 method_0x12345678
	Inputs          []AbiParam `json:"inputs,omitempty"`          // 输入参数
	Outputs         []AbiParam `json:"outputs,omitempty"`         // 输出参数
	StateMutability string     `json:"stateMutability,omitempty"` // view | pure | nonpayable | payable
	Selector        string     `json:"selector,omitempty"`        // 4 字节选择器（0x 前缀），事件为 topic 哈希
	Signature       string     `json:"signature,omitempty"`       // 人类可读签名，如 transfer(address,uint256)
	Recovered       bool       `json:"recovered"`                 // 是否恢复出了可读签名
}

// IsViewFunction 返回该条目是否为只读函数
func (e *AbiEntry) IsViewFunction() bool {
	return e.Type == "function" && (e.StateMutability == "view" || e.StateMutability == "pure")
}

// ZeroArg 返回该条目是否为零参函数
func (e *AbiEntry) ZeroArg() bool {
	return e.Type == "function" && len(e.Inputs) == 0
}

// AbiParam 接口条目的单个参数
type AbiParam struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// ===== 代理链 =====

// ProxyKind 已知代理模式的类别
type ProxyKind string

const (
	// ProxyKindMinimal EIP-1167 最小代理（字节码内嵌实现地址）
	ProxyKindMinimal ProxyKind = "eip1167"

	// ProxyKindEIP1967 EIP-1967 实现槽代理
	ProxyKindEIP1967 ProxyKind = "eip1967"

	// ProxyKindBeacon EIP-1967 beacon 槽代理
	ProxyKindBeacon ProxyKind = "eip1967-beacon"

	// ProxyKindZeppelin 旧版 zeppelinos 实现槽代理
	ProxyKindZeppelin ProxyKind = "zeppelin"
)

// ProxyHop 代理链上的一跳
//
// 逐跳解析是幂等的；链的追踪必须在环路或跳数上限处终止。
type ProxyHop struct {
	Kind           ProxyKind `json:"kind"`           // 命中的代理模式
	Address        string    `json:"address"`        // 代理合约地址
	Implementation string    `json:"implementation"` // 解析出的实现地址
}

// ===== 生成的交互界面 =====

// GeneratedSurface 外部生成服务产出的交互界面
//
// markup 是不透明字符串，宿主不解释其内容；每次注入整体替换，
// 不做增量修补。除非启用界面缓存，每个轮询周期都会重新生成。
type GeneratedSurface struct {
	Address     string    `json:"address"`      // 生成时针对的合约地址
	Name        string    `json:"name"`         // 生成时使用的身份标签
	Markup      string    `json:"markup"`       // 不透明标记文本
	GeneratedAt time.Time `json:"generated_at"` // 生成时间
}

// NormalizeAddress 将地址统一为小写 0x 前缀形式，便于做键比较
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		addr = "0x" + addr
	}
	return strings.ToLower(addr)
}
