package chainstate

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Session 实现了 ForkSession 接口
var _ chainstateiface.ForkSession = (*Session)(nil)

// accountState 单个账户在叠加层中的状态
//
// 指针字段为 nil 表示该维度尚未覆盖也未读透；读透后的基准值
// 与本地改动不做区分——叠加层只关心"当前值"。
type accountState struct {
	balance *big.Int
	nonce   *uint64
	code    []byte                      // nil 表示未加载，空切片表示外部账户
	storage map[common.Hash]common.Hash // 已知槽位
	dirty   dirtyFlags                  // 哪些维度是本地改动（进覆盖集）
}

// dirtyFlags 标记哪些维度被本地改动过
type dirtyFlags struct {
	balance bool
	nonce   bool
	code    bool
	storage map[common.Hash]bool
}

// Session 分叉会话
//
// 读走叠加层：本地有值直接返回，否则按基准区块从实时链读透
// 并记住。写只落在叠加层，实时链完全不受影响。
type Session struct {
	bridge    transport.Bridge
	engine    chainstateiface.SimulationEngine
	baseBlock uint64

	mu       sync.RWMutex
	accounts map[common.Address]*accountState
	active   bool
}

// newSession 创建固定在给定基准区块的分叉会话
func newSession(bridge transport.Bridge, engine chainstateiface.SimulationEngine, baseBlock uint64) *Session {
	return &Session{
		bridge:    bridge,
		engine:    engine,
		baseBlock: baseBlock,
		accounts:  make(map[common.Address]*accountState),
		active:    true,
	}
}

// BaseBlock 会话创建时固定的基准区块号
func (s *Session) BaseBlock() uint64 {
	return s.baseBlock
}

// Active 会话是否仍被管理器持有
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// deactivate 管理器释放会话时调用（被替换或 unfork）
func (s *Session) deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// ===== StateReader =====

// BlockNumber forked 模式下返回固定的基准区块号
func (s *Session) BlockNumber(ctx context.Context) (uint64, error) {
	return s.baseBlock, nil
}

// GetBalance 返回账户余额（叠加层优先，否则按基准区块读透）
func (s *Session) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	s.mu.RLock()
	if acct, ok := s.accounts[addr]; ok && acct.balance != nil {
		balance := new(big.Int).Set(acct.balance)
		s.mu.RUnlock()
		return balance, nil
	}
	s.mu.RUnlock()

	result, err := s.bridge.Send(ctx, constants.MethodGetBalance, addr, s.baseTag())
	if err != nil {
		return nil, err
	}
	balance, err := decodeHexBig(result)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	acct := s.account(addr)
	// 读透期间可能已有本地改动，改动优先
	if acct.balance == nil {
		acct.balance = new(big.Int).Set(balance)
	} else {
		balance = new(big.Int).Set(acct.balance)
	}
	s.mu.Unlock()
	return balance, nil
}

// GetNonce 返回账户 nonce
func (s *Session) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	s.mu.RLock()
	if acct, ok := s.accounts[addr]; ok && acct.nonce != nil {
		nonce := *acct.nonce
		s.mu.RUnlock()
		return nonce, nil
	}
	s.mu.RUnlock()

	result, err := s.bridge.Send(ctx, constants.MethodGetTransactionCount, addr, s.baseTag())
	if err != nil {
		return 0, err
	}
	nonce, err := decodeHexUint(result)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	acct := s.account(addr)
	if acct.nonce == nil {
		acct.nonce = &nonce
	} else {
		nonce = *acct.nonce
	}
	s.mu.Unlock()
	return nonce, nil
}

// GetCode 返回账户字节码
func (s *Session) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	s.mu.RLock()
	if acct, ok := s.accounts[addr]; ok && acct.code != nil {
		code := append([]byte(nil), acct.code...)
		s.mu.RUnlock()
		return code, nil
	}
	s.mu.RUnlock()

	result, err := s.bridge.Send(ctx, constants.MethodGetCode, addr, s.baseTag())
	if err != nil {
		return nil, err
	}
	code, err := decodeHexBytes(result)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	acct := s.account(addr)
	if acct.code == nil {
		acct.code = append([]byte(nil), code...)
	} else {
		code = append([]byte(nil), acct.code...)
	}
	s.mu.Unlock()
	return code, nil
}

// GetStorageAt 返回存储槽的值
func (s *Session) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	s.mu.RLock()
	if acct, ok := s.accounts[addr]; ok {
		if value, known := acct.storage[slot]; known {
			s.mu.RUnlock()
			return value, nil
		}
	}
	s.mu.RUnlock()

	result, err := s.bridge.Send(ctx, constants.MethodGetStorageAt, addr, slot, s.baseTag())
	if err != nil {
		return common.Hash{}, err
	}
	var hexStr string
	if err := json.Unmarshal(result, &hexStr); err != nil {
		return common.Hash{}, fmt.Errorf("解析存储槽结果失败: %w", err)
	}
	value := common.HexToHash(hexStr)

	s.mu.Lock()
	acct := s.account(addr)
	if existing, known := acct.storage[slot]; known {
		value = existing
	} else {
		acct.storage[slot] = value
	}
	s.mu.Unlock()
	return value, nil
}

// CallContract 把调用委托给外部执行引擎
// 引擎在基准区块与叠加层覆盖集上执行，执行语义不在宿主内
func (s *Session) CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	return s.engine.Execute(ctx, msg, s.baseBlock, s.Overrides())
}

// ===== StateWriter =====

// SetBalance 覆盖账户余额
func (s *Session) SetBalance(ctx context.Context, addr common.Address, balance *big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return fmt.Errorf("余额必须为非负数")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.account(addr)
	acct.balance = new(big.Int).Set(balance)
	acct.dirty.balance = true
	return nil
}

// SetCode 覆盖账户字节码
func (s *Session) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.account(addr)
	acct.code = append([]byte(nil), code...)
	acct.dirty.code = true
	return nil
}

// SetStorageAt 覆盖单个存储槽
func (s *Session) SetStorageAt(ctx context.Context, addr common.Address, slot, value common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.account(addr)
	acct.storage[slot] = value
	acct.dirty.storage[slot] = true
	return nil
}

// Transfer 在叠加层内做一次余额划转（含发送方 nonce 递增）
//
// 双方余额都先读透到叠加层再改，余额不足是错误且不产生任何改动。
func (s *Session) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("划转金额必须为非负数")
	}

	fromBalance, err := s.GetBalance(ctx, from)
	if err != nil {
		return fmt.Errorf("读取发送方余额失败: %w", err)
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("余额不足: 持有 %s 需要 %s", fromBalance, amount)
	}
	toBalance, err := s.GetBalance(ctx, to)
	if err != nil {
		return fmt.Errorf("读取接收方余额失败: %w", err)
	}
	fromNonce, err := s.GetNonce(ctx, from)
	if err != nil {
		return fmt.Errorf("读取发送方nonce失败: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fromAcct := s.account(from)
	toAcct := s.account(to)

	fromAcct.balance = new(big.Int).Sub(fromBalance, amount)
	fromAcct.dirty.balance = true
	nextNonce := fromNonce + 1
	fromAcct.nonce = &nextNonce
	fromAcct.dirty.nonce = true

	toAcct.balance = new(big.Int).Add(toBalance, amount)
	toAcct.dirty.balance = true
	return nil
}

// Overrides 把叠加层的本地改动编成 eth_call 的 state-override 集合
// 只有 dirty 的维度进覆盖集；读透的基准值不需要覆盖
func (s *Session) Overrides() types.StateOverride {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overrides := make(types.StateOverride)
	for addr, acct := range s.accounts {
		var ov types.AccountOverride
		changed := false

		if acct.dirty.balance && acct.balance != nil {
			ov.Balance = (*hexutil.Big)(new(big.Int).Set(acct.balance))
			changed = true
		}
		if acct.dirty.nonce && acct.nonce != nil {
			nonce := hexutil.Uint64(*acct.nonce)
			ov.Nonce = &nonce
			changed = true
		}
		if acct.dirty.code && acct.code != nil {
			ov.Code = append(hexutil.Bytes(nil), acct.code...)
			changed = true
		}
		for slot, isDirty := range acct.dirty.storage {
			if !isDirty {
				continue
			}
			if ov.StateDiff == nil {
				ov.StateDiff = make(map[common.Hash]common.Hash)
			}
			ov.StateDiff[slot] = acct.storage[slot]
			changed = true
		}

		if changed {
			overrides[addr] = ov
		}
	}
	return overrides
}

// account 取出（或建立）账户的叠加层条目，调用方必须持有写锁
func (s *Session) account(addr common.Address) *accountState {
	acct, ok := s.accounts[addr]
	if !ok {
		acct = &accountState{
			storage: make(map[common.Hash]common.Hash),
			dirty:   dirtyFlags{storage: make(map[common.Hash]bool)},
		}
		s.accounts[addr] = acct
	}
	return acct
}

// baseTag 基准区块的十六进制区块标签
func (s *Session) baseTag() string {
	return hexutil.EncodeUint64(s.baseBlock)
}
