// Package constants provides well-known function selector definitions.
package constants

// WellKnownSelectors 常见函数选择器到可读签名的映射
//
// 字节码启发式分析只能从派发表恢复出 4 字节选择器；命中本表的
// 选择器可以直接还原签名与可变性，未命中的保持选择器占位名。
// 覆盖面向 ERC-20 / ERC-721 / 所有权 / 可升级代理 / 常见 DeFi 入口，
// 足够覆盖绝大多数线上合约的派发表。
var WellKnownSelectors = map[string]SelectorInfo{
	// ERC-20 / 通用代币
	"0x06fdde03": {Signature: "name()", StateMutability: "view"},
	"0x95d89b41": {Signature: "symbol()", StateMutability: "view"},
	"0x313ce567": {Signature: "decimals()", StateMutability: "view"},
	"0x18160ddd": {Signature: "totalSupply()", StateMutability: "view"},
	"0x70a08231": {Signature: "balanceOf(address)", StateMutability: "view"},
	"0xa9059cbb": {Signature: "transfer(address,uint256)", StateMutability: "nonpayable"},
	"0x23b872dd": {Signature: "transferFrom(address,address,uint256)", StateMutability: "nonpayable"},
	"0x095ea7b3": {Signature: "approve(address,uint256)", StateMutability: "nonpayable"},
	"0xdd62ed3e": {Signature: "allowance(address,address)", StateMutability: "view"},

	// ERC-721
	"0x6352211e": {Signature: "ownerOf(uint256)", StateMutability: "view"},
	"0x081812fc": {Signature: "getApproved(uint256)", StateMutability: "view"},
	"0xa22cb465": {Signature: "setApprovalForAll(address,bool)", StateMutability: "nonpayable"},
	"0xe985e9c5": {Signature: "isApprovedForAll(address,address)", StateMutability: "view"},
	"0x42842e0e": {Signature: "safeTransferFrom(address,address,uint256)", StateMutability: "nonpayable"},
	"0xb88d4fde": {Signature: "safeTransferFrom(address,address,uint256,bytes)", StateMutability: "nonpayable"},
	"0x01ffc9a7": {Signature: "supportsInterface(bytes4)", StateMutability: "view"},

	// 所有权与版本
	"0x8da5cb5b": {Signature: "owner()", StateMutability: "view"},
	"0xf2fde38b": {Signature: "transferOwnership(address)", StateMutability: "nonpayable"},
	"0x715018a6": {Signature: "renounceOwnership()", StateMutability: "nonpayable"},
	"0x54fd4d50": {Signature: "version()", StateMutability: "view"},

	// 可升级代理管理面
	"0x5c60da1b": {Signature: "implementation()", StateMutability: "view"},
	"0xf851a440": {Signature: "admin()", StateMutability: "view"},
	"0x3659cfe6": {Signature: "upgradeTo(address)", StateMutability: "nonpayable"},
	"0x4f1ef286": {Signature: "upgradeToAndCall(address,bytes)", StateMutability: "payable"},
	"0x8f283970": {Signature: "changeAdmin(address)", StateMutability: "nonpayable"},

	// 常见资金入口
	"0xd0e30db0": {Signature: "deposit()", StateMutability: "payable"},
	"0x2e1a7d4d": {Signature: "withdraw(uint256)", StateMutability: "nonpayable"},
	"0x40c10f19": {Signature: "mint(address,uint256)", StateMutability: "nonpayable"},
	"0x42966c68": {Signature: "burn(uint256)", StateMutability: "nonpayable"},

	// 暂停开关
	"0x8456cb59": {Signature: "pause()", StateMutability: "nonpayable"},
	"0x3f4ba83a": {Signature: "unpause()", StateMutability: "nonpayable"},
	"0x5c975abb": {Signature: "paused()", StateMutability: "view"},

	// AMM 常见只读面
	"0x0dfe1681": {Signature: "token0()", StateMutability: "view"},
	"0xd21220a7": {Signature: "token1()", StateMutability: "view"},
	"0x0902f1ac": {Signature: "getReserves()", StateMutability: "view"},
}

// SelectorInfo 已知选择器的还原信息
type SelectorInfo struct {
	Signature       string // 人类可读签名，如 transfer(address,uint256)
	StateMutability string // view | pure | nonpayable | payable
}

// IdentityProbeCandidates 身份探测按序尝试的零参只读签名
//
// 第一个调用成功的结果作为合约名；全部失败回退 UnknownContractName。
var IdentityProbeCandidates = []string{
	"name()",
	"symbol()",
}
