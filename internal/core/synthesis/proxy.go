package synthesis

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Resolver 实现了 ProxyResolver 接口
var _ synthesisiface.ProxyResolver = (*Resolver)(nil)

// Resolver 已知代理模式的单跳检测
//
// 检测顺序：EIP-1167 字节码模板 → EIP-1967 实现槽 → EIP-1967
// beacon 槽 → 旧版 zeppelin 槽。字节码模板不需要链上读；
// 存储槽读取每次现取当前后端。
type Resolver struct {
	forkManager chainstateiface.ForkManager
	logger      log.Logger
}

// NewResolver 创建代理检测器
func NewResolver(forkManager chainstateiface.ForkManager, logger log.Logger) *Resolver {
	return &Resolver{forkManager: forkManager, logger: logger}
}

// Detect 检测单跳代理；未命中任何模式时返回 nil, false
func (r *Resolver) Detect(ctx context.Context, address string, code []byte) (*types.ProxyHop, bool, error) {
	// 1. EIP-1167 最小代理：实现地址内嵌在字节码里
	if impl, ok := matchMinimalProxy(code); ok {
		return &types.ProxyHop{
			Kind:           types.ProxyKindMinimal,
			Address:        address,
			Implementation: impl,
		}, true, nil
	}

	// 2. 存储槽模式：按标准槽逐个探查
	slotKinds := []struct {
		kind types.ProxyKind
		slot string
	}{
		{types.ProxyKindEIP1967, constants.ProxySlotImplementation},
		{types.ProxyKindBeacon, constants.ProxySlotBeacon},
		{types.ProxyKindZeppelin, constants.ProxySlotZeppelin},
	}

	addr := common.HexToAddress(address)
	for _, candidate := range slotKinds {
		value, err := r.forkManager.Current().GetStorageAt(ctx, addr, common.HexToHash(candidate.slot))
		if err != nil {
			return nil, false, fmt.Errorf("读取代理槽失败: %w", err)
		}
		impl := common.BytesToAddress(value.Bytes())
		if impl == (common.Address{}) {
			continue
		}

		// beacon 槽指向 beacon 合约，实现地址还要读 beacon 的实现槽
		if candidate.kind == types.ProxyKindBeacon {
			resolved, err := r.resolveBeacon(ctx, impl)
			if err != nil {
				if r.logger != nil {
					r.logger.Debugf("beacon实现解析失败: proxy=%s beacon=%s err=%v", address, impl.Hex(), err)
				}
				continue
			}
			impl = resolved
			if impl == (common.Address{}) {
				continue
			}
		}

		return &types.ProxyHop{
			Kind:           candidate.kind,
			Address:        address,
			Implementation: types.NormalizeAddress(impl.Hex()),
		}, true, nil
	}

	return nil, false, nil
}

// resolveBeacon 解析 beacon 合约指向的真实实现地址
//
// UpgradeableBeacon 把实现地址存在普通存储变量里，标准读法是
// implementation() 调用；实现槽读取保留为兜底，兼容把实现
// 写进 EIP-1967 槽的非标准 beacon。
func (r *Resolver) resolveBeacon(ctx context.Context, beacon common.Address) (common.Address, error) {
	selector := crypto.Keccak256([]byte("implementation()"))[:4]
	result, err := r.forkManager.Current().CallContract(ctx, types.CallMsg{
		To:   &beacon,
		Data: hexutil.Bytes(selector),
	})
	if err == nil && len(result) == 32 {
		if impl := common.BytesToAddress(result); impl != (common.Address{}) {
			return impl, nil
		}
	}

	value, err := r.forkManager.Current().GetStorageAt(ctx, beacon, common.HexToHash(constants.ProxySlotImplementation))
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(value.Bytes()), nil
}

// matchMinimalProxy 匹配 EIP-1167 运行时字节码模板
// 前缀 + 20 字节实现地址 + 后缀，长度固定为 45 字节
func matchMinimalProxy(code []byte) (string, bool) {
	hexCode := strings.ToLower(hex.EncodeToString(code))
	expected := len(constants.MinimalProxyPrefix) + 40 + len(constants.MinimalProxySuffix)
	if len(hexCode) != expected {
		return "", false
	}
	if !strings.HasPrefix(hexCode, constants.MinimalProxyPrefix) ||
		!strings.HasSuffix(hexCode, constants.MinimalProxySuffix) {
		return "", false
	}
	impl := hexCode[len(constants.MinimalProxyPrefix) : len(constants.MinimalProxyPrefix)+40]
	return "0x" + impl, true
}
