// Package chainstate 实现双模链状态后端与分叉管理器
//
// live 模式的每一次读都经传输桥落到实时链；forked 模式在叠加层
// 上模拟改动，基准状态按需从实时链读透并固定在基准区块。
package chainstate

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 LiveBackend 实现了 StateReader 接口
var _ chainstateiface.StateReader = (*LiveBackend)(nil)

// LiveBackend 实时链后端
//
// 无状态：每个读都是一次独立的桥调用，不缓存任何链上数据。
type LiveBackend struct {
	bridge transport.Bridge
}

// NewLiveBackend 创建实时链后端
func NewLiveBackend(bridge transport.Bridge) *LiveBackend {
	return &LiveBackend{bridge: bridge}
}

// BlockNumber 返回最新区块号
func (l *LiveBackend) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := l.bridge.Send(ctx, constants.MethodBlockNumber)
	if err != nil {
		return 0, err
	}
	return decodeHexUint(result)
}

// GetCode 返回账户的部署字节码；外部账户返回空切片
func (l *LiveBackend) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	result, err := l.bridge.Send(ctx, constants.MethodGetCode, addr, constants.BlockTagLatest)
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(result)
}

// GetBalance 返回账户余额
func (l *LiveBackend) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	result, err := l.bridge.Send(ctx, constants.MethodGetBalance, addr, constants.BlockTagLatest)
	if err != nil {
		return nil, err
	}
	return decodeHexBig(result)
}

// GetNonce 返回账户 nonce
func (l *LiveBackend) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	result, err := l.bridge.Send(ctx, constants.MethodGetTransactionCount, addr, constants.BlockTagLatest)
	if err != nil {
		return 0, err
	}
	return decodeHexUint(result)
}

// GetStorageAt 返回存储槽的值
func (l *LiveBackend) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	result, err := l.bridge.Send(ctx, constants.MethodGetStorageAt, addr, slot, constants.BlockTagLatest)
	if err != nil {
		return common.Hash{}, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return common.Hash{}, fmt.Errorf("解析存储槽结果失败: %w", err)
	}
	return common.HexToHash(hexStr), nil
}

// CallContract 执行只读合约调用
func (l *LiveBackend) CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	result, err := l.bridge.Send(ctx, constants.MethodCall, msg, constants.BlockTagLatest)
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(result)
}

// ===== 结果解码 =====

// decodeHexUint 解码 0x 前缀的数值结果
func decodeHexUint(raw json.RawMessage) (uint64, error) {
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return 0, fmt.Errorf("解析数值结果失败: %w", err)
	}
	value, err := hexutil.DecodeUint64(hexStr)
	if err != nil {
		return 0, fmt.Errorf("解码数值结果失败: %w", err)
	}
	return value, nil
}

// decodeHexBig 解码 0x 前缀的大整数结果
func decodeHexBig(raw json.RawMessage) (*big.Int, error) {
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return nil, fmt.Errorf("解析大整数结果失败: %w", err)
	}
	value, err := hexutil.DecodeBig(hexStr)
	if err != nil {
		return nil, fmt.Errorf("解码大整数结果失败: %w", err)
	}
	return value, nil
}

// decodeHexBytes 解码 0x 前缀的字节串结果
func decodeHexBytes(raw json.RawMessage) ([]byte, error) {
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return nil, fmt.Errorf("解析字节串结果失败: %w", err)
	}
	if hexStr == "" || hexStr == "0x" {
		return []byte{}, nil
	}
	data, err := hexutil.Decode(hexStr)
	if err != nil {
		return nil, fmt.Errorf("解码字节串结果失败: %w", err)
	}
	return data, nil
}
