package synthesis

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Prober 实现了 IdentityProber 接口
var _ synthesisiface.IdentityProber = (*Prober)(nil)

// Prober 合约身份探测
//
// 在恢复出的接口里按序尝试零参只读候选（name、symbol），第一个
// 调用成功且解码出非空字符串的结果作为合约名。探测失败是预期内
// 情况：revert、函数不存在、解码失败都回退兜底名，从不上抛。
type Prober struct {
	forkManager chainstateiface.ForkManager
	logger      log.Logger
}

// NewProber 创建身份探测器
func NewProber(forkManager chainstateiface.ForkManager, logger log.Logger) *Prober {
	return &Prober{forkManager: forkManager, logger: logger}
}

// ProbeName 探测合约名；本方法从不返回错误
func (p *Prober) ProbeName(ctx context.Context, address string, entries []types.AbiEntry) string {
	for _, signature := range constants.IdentityProbeCandidates {
		if !interfaceOffers(entries, signature) {
			continue
		}

		name, err := p.callNameFunction(ctx, address, signature)
		if err != nil {
			if p.logger != nil {
				p.logger.Debugf("身份探测失败: addr=%s sig=%s err=%v", address, signature, err)
			}
			continue
		}
		if name != "" {
			return name
		}
	}
	return types.UnknownContractName
}

// callNameFunction 调用单个零参只读函数并解码字符串结果
// 后端每次现取：探测期间可能发生 fork/unfork
func (p *Prober) callNameFunction(ctx context.Context, address, signature string) (string, error) {
	selector := crypto.Keccak256([]byte(signature))[:4]
	to := common.HexToAddress(address)

	result, err := p.forkManager.Current().CallContract(ctx, types.CallMsg{
		To:   &to,
		Data: hexutil.Bytes(selector),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrIdentityProbeFailed, err)
	}

	name, ok := decodeStringResult(result)
	if !ok {
		return "", fmt.Errorf("%w: 无法解码返回值", types.ErrIdentityProbeFailed)
	}
	return name, nil
}

// interfaceOffers 判断接口是否声明了给定签名的零参函数
//
// 验证源条目按签名比对；字节码恢复的条目只认选择器。
// 接口为空时仍然放行探测：占位条目拿不到函数存在性的否定证据。
func interfaceOffers(entries []types.AbiEntry, signature string) bool {
	if len(entries) == 0 {
		return true
	}
	selector := "0x" + common.Bytes2Hex(crypto.Keccak256([]byte(signature))[:4])
	for _, entry := range entries {
		if entry.Signature != signature && entry.Selector != selector {
			continue
		}
		// 验证源条目带完整元数据：同名但带参或可写的函数
		// 不能当零参只读探测来调
		if entry.StateMutability != "" || len(entry.Inputs) > 0 {
			return entry.ZeroArg() && entry.IsViewFunction()
		}
		return true
	}
	return false
}

// decodeStringResult 解码 eth_call 返回的字符串
//
// 两种 ABI 形状都接受：动态 string（offset+length+data）与
// 老式合约的定长 bytes32。
func decodeStringResult(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	// 动态 string：头 32 字节是偏移，偏移处 32 字节是长度
	if len(data) >= 64 {
		offset := binary.BigEndian.Uint64(data[24:32])
		if offset == 32 && len(data) >= 64 {
			length := binary.BigEndian.Uint64(data[56:64])
			if 64+length <= uint64(len(data)) {
				decoded := strings.TrimRight(string(data[64:64+length]), "\x00")
				if utf8.ValidString(decoded) {
					return strings.TrimSpace(decoded), true
				}
			}
		}
	}

	// 定长 bytes32：去掉尾部零填充
	if len(data) == 32 {
		decoded := string(bytes.TrimRight(data, "\x00"))
		if decoded != "" && utf8.ValidString(decoded) {
			return strings.TrimSpace(decoded), true
		}
	}

	return "", false
}
