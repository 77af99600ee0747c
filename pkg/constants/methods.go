// Package constants provides chain RPC method name definitions.
package constants

// 链方法名统一在此归口，桥接层与状态层不散落字符串字面量。
//
// 约定：
// - 方法名即标准 JSON-RPC 方法名，原样进入 RequestEnvelope.Method；
// - 桥接层不解释方法语义，语义由调用方按链规范解读。
const (
	// MethodBlockNumber 查询最新区块号
	MethodBlockNumber = "eth_blockNumber"

	// MethodChainID 查询链ID
	MethodChainID = "eth_chainId"

	// MethodGetCode 查询账户字节码
	MethodGetCode = "eth_getCode"

	// MethodGetBalance 查询账户余额
	MethodGetBalance = "eth_getBalance"

	// MethodGetStorageAt 查询存储槽
	MethodGetStorageAt = "eth_getStorageAt"

	// MethodGetTransactionCount 查询账户 nonce
	MethodGetTransactionCount = "eth_getTransactionCount"

	// MethodCall 只读合约调用
	MethodCall = "eth_call"

	// MethodSyncing 查询执行器同步状态
	MethodSyncing = "eth_syncing"

	// MethodGetBlockByNumber 按区块号查询区块
	MethodGetBlockByNumber = "eth_getBlockByNumber"
)

// 区块标签
const (
	// BlockTagLatest 最新区块
	BlockTagLatest = "latest"
)
