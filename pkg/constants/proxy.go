// Package constants provides proxy pattern detection constants.
package constants

// EIP-1967 标准存储槽（值为 keccak256(label) - 1，链上通读一致）
const (
	// ProxySlotImplementation eip1967.proxy.implementation
	ProxySlotImplementation = "0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"

	// ProxySlotAdmin eip1967.proxy.admin
	ProxySlotAdmin = "0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103"

	// ProxySlotBeacon eip1967.proxy.beacon
	ProxySlotBeacon = "0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50"

	// ProxySlotZeppelin 旧版 org.zeppelinos.proxy.implementation
	ProxySlotZeppelin = "0x7050c9e0f4ca769c69bd3a8ef740bc37934f8e2c036e5a723fd8ee048ed3f8c3"
)

// EIP-1167 最小代理的运行时字节码模板：前缀 + 20字节实现地址 + 后缀
const (
	// MinimalProxyPrefix EIP-1167 标准前缀（含 delegatecall 准备段）
	MinimalProxyPrefix = "363d3d373d3d3d363d73"

	// MinimalProxySuffix EIP-1167 标准后缀（delegatecall 与返回段）
	MinimalProxySuffix = "5af43d82803e903d91602b57fd5bf3"
)

// DefaultMaxProxyHops 代理链追踪的默认跳数上限
//
// 线上真实代理链极少超过两跳；上限同时兜住环路检测失效的情况。
const DefaultMaxProxyHops = 4
