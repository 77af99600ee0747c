package synthesis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

func newPipeline(reader *stubReader, registry *stubRegistry) *Pipeline {
	forkManager := &stubForkManager{reader: reader}
	return NewPipeline(
		synthesisconfig.New(nil),
		forkManager,
		registry,
		NewAnalyzer(),
		NewResolver(forkManager, nil),
		NewProber(forkManager, nil),
		nil,
	)
}

func TestResolveZeroBytecodeIsTerminal(t *testing.T) {
	reader := &stubReader{codeFn: func(addr common.Address) ([]byte, error) {
		return nil, nil
	}}
	pipeline := newPipeline(reader, &stubRegistry{})

	resolved, err := pipeline.ResolveInterface(context.Background(), "0xAAAA")
	require.NoError(t, err)

	// 零字节码是终态非错误：空 ABI、空代理链、兜底名称
	assert.NotNil(t, resolved.ABI)
	assert.Empty(t, resolved.ABI)
	assert.Empty(t, resolved.Proxies)
	assert.Equal(t, types.UnknownContractName, resolved.Name)
	assert.True(t, resolved.Empty())
	// 身份探测也不发起：零字节码地址没有可调用面
	assert.Zero(t, reader.callCount)
}

func TestResolveBackendFailureIsError(t *testing.T) {
	reader := &stubReader{codeFn: func(addr common.Address) ([]byte, error) {
		return nil, fmt.Errorf("执行器不可达")
	}}
	pipeline := newPipeline(reader, &stubRegistry{})

	// 外部前提缺失是唯一上抛 error 的情况
	_, err := pipeline.ResolveInterface(context.Background(), "0xaaaa")
	assert.Error(t, err)
}

func TestResolveRegistryHitWins(t *testing.T) {
	verified := []types.AbiEntry{{
		Type: "function", Name: "mint", Signature: "mint(address,uint256)", Recovered: true,
	}}
	reader := &stubReader{
		codeFn: func(addr common.Address) ([]byte, error) {
			return []byte{0x63, 0xa9, 0x05, 0x9c, 0xbb}, nil
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			return nil, fmt.Errorf("execution reverted")
		},
	}
	pipeline := newPipeline(reader, &stubRegistry{enabled: true, entries: verified})

	resolved, err := pipeline.ResolveInterface(context.Background(), "0xaaaa")
	require.NoError(t, err)

	// 注册表命中时不落入字节码分析
	require.Len(t, resolved.ABI, 1)
	assert.Equal(t, "mint", resolved.ABI[0].Name)
}

func TestResolveRegistryMissFallsBackToBytecode(t *testing.T) {
	reader := &stubReader{
		codeFn: func(addr common.Address) ([]byte, error) {
			return []byte{0x63, 0xa9, 0x05, 0x9c, 0xbb}, nil
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			return nil, fmt.Errorf("execution reverted")
		},
	}
	pipeline := newPipeline(reader, &stubRegistry{enabled: true, err: fmt.Errorf("未验证")})

	resolved, err := pipeline.ResolveInterface(context.Background(), "0xaaaa")
	require.NoError(t, err)

	require.Len(t, resolved.ABI, 1)
	assert.Equal(t, "transfer", resolved.ABI[0].Name)
}

func TestResolveFollowsProxyChain(t *testing.T) {
	proxyAddr := types.NormalizeAddress("0x00000000000000000000000000000000000000a1")
	implAddr := "00000000000000000000000000000000000000b2"

	reader := &stubReader{
		codeFn: func(addr common.Address) ([]byte, error) {
			if types.NormalizeAddress(addr.Hex()) == proxyAddr {
				code, _ := hexDecode(constantsMinimalProxy(implAddr))
				return code, nil
			}
			// 实现合约是普通派发表
			return []byte{0x63, 0x06, 0xfd, 0xde, 0x03}, nil
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			return encodeDynamicString("Proxied Token"), nil
		},
	}
	pipeline := newPipeline(reader, &stubRegistry{})

	resolved, err := pipeline.ResolveInterface(context.Background(), proxyAddr)
	require.NoError(t, err)

	// ABI 来自实现合约，代理链记录一跳
	require.Len(t, resolved.Proxies, 1)
	assert.Equal(t, types.ProxyKindMinimal, resolved.Proxies[0].Kind)
	assert.Equal(t, "0x"+implAddr, resolved.Proxies[0].Implementation)
	require.Len(t, resolved.ABI, 1)
	assert.Equal(t, "name", resolved.ABI[0].Name)
	assert.Equal(t, "Proxied Token", resolved.Name)
}

func TestResolveProxyCycleTerminates(t *testing.T) {
	addrA := "00000000000000000000000000000000000000a1"
	addrB := "00000000000000000000000000000000000000b2"

	// A 与 B 互为最小代理：追踪必须在环路处终止
	reader := &stubReader{
		codeFn: func(addr common.Address) ([]byte, error) {
			target := addrB
			if strings.EqualFold(addr.Hex()[2:], addrB) {
				target = addrA
			}
			return hexDecode(constantsMinimalProxy(target))
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			return nil, fmt.Errorf("execution reverted")
		},
	}
	pipeline := newPipeline(reader, &stubRegistry{})

	resolved, err := pipeline.ResolveInterface(context.Background(), "0x"+addrA)
	require.NoError(t, err)

	// A→B 与 B→A 各记一跳，之后终止
	require.Len(t, resolved.Proxies, 2)
	assert.Equal(t, "0x"+addrB, resolved.Proxies[0].Implementation)
	assert.Equal(t, "0x"+addrA, resolved.Proxies[1].Implementation)
}

func TestResolveProbesOriginalAddress(t *testing.T) {
	proxyAddr := types.NormalizeAddress("0x00000000000000000000000000000000000000a1")
	implAddr := "00000000000000000000000000000000000000b2"

	var probedAddr string
	reader := &stubReader{
		codeFn: func(addr common.Address) ([]byte, error) {
			if types.NormalizeAddress(addr.Hex()) == proxyAddr {
				return hexDecode(constantsMinimalProxy(implAddr))
			}
			return []byte{0x63, 0x06, 0xfd, 0xde, 0x03}, nil
		},
		callFn: func(msg types.CallMsg) ([]byte, error) {
			probedAddr = types.NormalizeAddress(msg.To.Hex())
			return encodeDynamicString("Proxied"), nil
		},
	}
	pipeline := newPipeline(reader, &stubRegistry{})

	_, err := pipeline.ResolveInterface(context.Background(), proxyAddr)
	require.NoError(t, err)

	// 身份探测打的是代理自身：对外身份在代理的存储里
	assert.Equal(t, proxyAddr, probedAddr)
}
