package synthesis

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/types"
)

// constantsMinimalProxy 拼出指向给定实现的 EIP-1167 字节码十六进制
func constantsMinimalProxy(impl string) string {
	return constants.MinimalProxyPrefix + impl + constants.MinimalProxySuffix
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// stubReader 可编程的链上读桩
type stubReader struct {
	codeFn    func(addr common.Address) ([]byte, error)
	storageFn func(addr common.Address, slot common.Hash) (common.Hash, error)
	callFn    func(msg types.CallMsg) ([]byte, error)
	callCount int
}

func (r *stubReader) BlockNumber(ctx context.Context) (uint64, error) { return 1, nil }

func (r *stubReader) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	if r.codeFn != nil {
		return r.codeFn(addr)
	}
	return nil, nil
}

func (r *stubReader) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *stubReader) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	return 0, nil
}

func (r *stubReader) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	if r.storageFn != nil {
		return r.storageFn(addr, slot)
	}
	return common.Hash{}, nil
}

func (r *stubReader) CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	r.callCount++
	if r.callFn != nil {
		return r.callFn(msg)
	}
	return nil, nil
}

// stubForkManager 固定返回同一个读后端
type stubForkManager struct {
	reader *stubReader
}

func (m *stubForkManager) Fork(ctx context.Context) (chainstateiface.ForkSession, error) {
	return nil, nil
}

func (m *stubForkManager) Unfork(ctx context.Context) error { return nil }

func (m *stubForkManager) Current() chainstateiface.StateReader { return m.reader }

func (m *stubForkManager) Mode() types.ChainMode { return types.ChainModeLive }

func (m *stubForkManager) Session() (chainstateiface.ForkSession, bool) { return nil, false }

// stubSession 固定凭据的会话桩
type stubSession struct {
	address       string
	registryKey   string
	generationKey string
}

func (s *stubSession) Address() string { return s.address }

func (s *stubSession) SetAddress(ctx context.Context, address string) error {
	s.address = address
	return nil
}

func (s *stubSession) RegistryKey() string { return s.registryKey }

func (s *stubSession) SetRegistryKey(ctx context.Context, key string) error {
	s.registryKey = key
	return nil
}

func (s *stubSession) GenerationKey() string { return s.generationKey }

func (s *stubSession) SetGenerationKey(ctx context.Context, key string) error {
	s.generationKey = key
	return nil
}

// stubRegistry 可编程的注册表桩
type stubRegistry struct {
	enabled bool
	entries []types.AbiEntry
	err     error
}

func (r *stubRegistry) Enabled() bool { return r.enabled }

func (r *stubRegistry) LookupABI(ctx context.Context, address string) ([]types.AbiEntry, error) {
	return r.entries, r.err
}
