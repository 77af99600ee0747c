package synthesis

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/lens/pkg/constants"
	"github.com/weisyn/lens/pkg/types"
)

// minimalProxyCode 构造指向给定实现的 EIP-1167 运行时字节码
func minimalProxyCode(t *testing.T, impl string) []byte {
	t.Helper()
	code, err := hex.DecodeString(constants.MinimalProxyPrefix + impl + constants.MinimalProxySuffix)
	require.NoError(t, err)
	return code
}

func TestDetectMinimalProxy(t *testing.T) {
	resolver := NewResolver(&stubForkManager{reader: &stubReader{}}, nil)

	impl := "1234567890123456789012345678901234567890"
	hop, ok, err := resolver.Detect(context.Background(), "0xaaaa", minimalProxyCode(t, impl))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, types.ProxyKindMinimal, hop.Kind)
	assert.Equal(t, "0xaaaa", hop.Address)
	assert.Equal(t, "0x"+impl, hop.Implementation)
}

func TestDetectMinimalProxyRejectsWrongLength(t *testing.T) {
	resolver := NewResolver(&stubForkManager{reader: &stubReader{}}, nil)

	// 模板前缀正确但长度不符：不是最小代理，也没有槽值
	code := minimalProxyCode(t, "1234567890123456789012345678901234567890")
	_, ok, err := resolver.Detect(context.Background(), "0xaaaa", append(code, 0x00))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetectEIP1967ImplementationSlot(t *testing.T) {
	proxy := common.HexToAddress("0xaaaa")
	impl := common.HexToAddress("0xbbbb")
	implSlot := common.HexToHash(constants.ProxySlotImplementation)

	reader := &stubReader{storageFn: func(addr common.Address, slot common.Hash) (common.Hash, error) {
		if addr == proxy && slot == implSlot {
			return common.BytesToHash(impl.Bytes()), nil
		}
		return common.Hash{}, nil
	}}
	resolver := NewResolver(&stubForkManager{reader: reader}, nil)

	hop, ok, err := resolver.Detect(context.Background(), proxy.Hex(), []byte{0x60, 0x80})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, types.ProxyKindEIP1967, hop.Kind)
	assert.Equal(t, types.NormalizeAddress(impl.Hex()), hop.Implementation)
}

func TestDetectBeaconSlotResolvesThroughBeacon(t *testing.T) {
	proxy := common.HexToAddress("0xaaaa")
	beacon := common.HexToAddress("0xcccc")
	impl := common.HexToAddress("0xdddd")
	implSlot := common.HexToHash(constants.ProxySlotImplementation)
	beaconSlot := common.HexToHash(constants.ProxySlotBeacon)

	reader := &stubReader{storageFn: func(addr common.Address, slot common.Hash) (common.Hash, error) {
		switch {
		case addr == proxy && slot == beaconSlot:
			return common.BytesToHash(beacon.Bytes()), nil
		case addr == beacon && slot == implSlot:
			return common.BytesToHash(impl.Bytes()), nil
		}
		return common.Hash{}, nil
	}}
	resolver := NewResolver(&stubForkManager{reader: reader}, nil)

	hop, ok, err := resolver.Detect(context.Background(), proxy.Hex(), []byte{0x60, 0x80})
	require.NoError(t, err)
	require.True(t, ok)

	// implementation() 调不通时兜底读 beacon 的实现槽
	assert.Equal(t, types.ProxyKindBeacon, hop.Kind)
	assert.Equal(t, types.NormalizeAddress(impl.Hex()), hop.Implementation)
}

func TestDetectBeaconPrefersImplementationCall(t *testing.T) {
	proxy := common.HexToAddress("0xaaaa")
	beacon := common.HexToAddress("0xcccc")
	impl := common.HexToAddress("0xdddd")
	beaconSlot := common.HexToHash(constants.ProxySlotBeacon)

	// 标准 UpgradeableBeacon：实现地址在普通存储变量里，
	// 只有 implementation() 调用能读到，槽读取拿不到
	reader := &stubReader{
		storageFn: func(addr common.Address, slot common.Hash) (common.Hash, error) {
			if addr == proxy && slot == beaconSlot {
				return common.BytesToHash(beacon.Bytes()), nil
			}
			return common.Hash{}, nil
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			if msg.To != nil && *msg.To == beacon {
				return common.LeftPadBytes(impl.Bytes(), 32), nil
			}
			return nil, fmt.Errorf("execution reverted")
		},
	}
	resolver := NewResolver(&stubForkManager{reader: reader}, nil)

	hop, ok, err := resolver.Detect(context.Background(), proxy.Hex(), []byte{0x60, 0x80})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, types.ProxyKindBeacon, hop.Kind)
	assert.Equal(t, types.NormalizeAddress(impl.Hex()), hop.Implementation)
}

func TestDetectZeppelinSlot(t *testing.T) {
	proxy := common.HexToAddress("0xaaaa")
	impl := common.HexToAddress("0xeeee")
	zeppelinSlot := common.HexToHash(constants.ProxySlotZeppelin)

	reader := &stubReader{storageFn: func(addr common.Address, slot common.Hash) (common.Hash, error) {
		if addr == proxy && slot == zeppelinSlot {
			return common.BytesToHash(impl.Bytes()), nil
		}
		return common.Hash{}, nil
	}}
	resolver := NewResolver(&stubForkManager{reader: reader}, nil)

	hop, ok, err := resolver.Detect(context.Background(), proxy.Hex(), []byte{0x60, 0x80})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.ProxyKindZeppelin, hop.Kind)
}

func TestDetectPlainContractIsNotProxy(t *testing.T) {
	resolver := NewResolver(&stubForkManager{reader: &stubReader{}}, nil)

	hop, ok, err := resolver.Detect(context.Background(), "0xaaaa", []byte{0x60, 0x80, 0x60, 0x40})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, hop)
}
