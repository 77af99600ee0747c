package synthesis

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/weisyn/lens/pkg/constants"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Analyzer 实现了 BytecodeAnalyzer 接口
var _ synthesisiface.BytecodeAnalyzer = (*Analyzer)(nil)

// Analyzer 部署字节码的启发式接口恢复
//
// Solidity 派发表把每个外部函数的 4 字节选择器压栈比较，
// 线性扫 PUSH4 立即数即可收回候选选择器。启发式天然有误报
// （常量恰好 4 字节），不影响用途：恢复的是候选调用面。
type Analyzer struct{}

// NewAnalyzer 创建字节码分析器
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze 从字节码派发表恢复选择器条目
//
// 按指令线性遍历：pc 每次前进 1 + PUSH 立即数长度，绝不跟随
// 动态跳转目标。命中已知选择器表的条目还原签名与可变性，
// 未命中的保持 method_0x<selector> 占位名。
func (a *Analyzer) Analyze(code []byte) []types.AbiEntry {
	if len(code) == 0 {
		return nil
	}
	code = stripMetadata(code)

	seen := make(map[uint32]struct{})
	var selectors []uint32

	for pc := 0; pc < len(code); {
		op := vm.OpCode(code[pc])

		if op >= vm.PUSH1 && op <= vm.PUSH32 {
			size := int(op - vm.PUSH1 + 1)
			if op == vm.PUSH4 && pc+4 < len(code) {
				selector := binary.BigEndian.Uint32(code[pc+1 : pc+5])
				// 0x00000000 和 0xffffffff 是掩码常量不是选择器
				if selector != 0 && selector != 0xffffffff {
					if _, dup := seen[selector]; !dup {
						seen[selector] = struct{}{}
						selectors = append(selectors, selector)
					}
				}
			}
			pc += 1 + size
			continue
		}
		pc++
	}

	sort.Slice(selectors, func(i, j int) bool { return selectors[i] < selectors[j] })

	entries := make([]types.AbiEntry, 0, len(selectors))
	for _, selector := range selectors {
		entries = append(entries, entryForSelector(selector))
	}
	return entries
}

// entryForSelector 为单个选择器构造接口条目
func entryForSelector(selector uint32) types.AbiEntry {
	hexSel := fmt.Sprintf("0x%08x", selector)

	if info, known := constants.WellKnownSelectors[hexSel]; known {
		name, inputs := splitSignature(info.Signature)
		return types.AbiEntry{
			Type:            "function",
			Name:            name,
			Inputs:          inputs,
			StateMutability: info.StateMutability,
			Selector:        hexSel,
			Signature:       info.Signature,
			Recovered:       true,
		}
	}

	return types.AbiEntry{
		Type:     "function",
		Name:     fmt.Sprintf("method_%s", hexSel),
		Selector: hexSel,
	}
}

// splitSignature 把 "transfer(address,uint256)" 拆成名字与参数列表
func splitSignature(signature string) (string, []types.AbiParam) {
	open := -1
	for i, ch := range signature {
		if ch == '(' {
			open = i
			break
		}
	}
	if open < 0 || signature[len(signature)-1] != ')' {
		return signature, nil
	}

	name := signature[:open]
	argList := signature[open+1 : len(signature)-1]
	if argList == "" {
		return name, nil
	}

	var params []types.AbiParam
	start := 0
	depth := 0
	for i := 0; i <= len(argList); i++ {
		if i == len(argList) || (argList[i] == ',' && depth == 0) {
			params = append(params, types.AbiParam{Type: argList[start:i]})
			start = i + 1
			continue
		}
		switch argList[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return name, params
}

// stripMetadata 剥掉 Solidity 追加的 CBOR 元数据尾段
//
// 尾段以大端两字节的长度结尾，长度不含这两个字节本身。
// 长度不合法时按无尾段处理，原样返回。
func stripMetadata(code []byte) []byte {
	if len(code) < 2 {
		return code
	}
	tail := int(binary.BigEndian.Uint16(code[len(code)-2:]))
	total := tail + 2
	if tail == 0 || total >= len(code) {
		return code
	}
	return code[:len(code)-total]
}
