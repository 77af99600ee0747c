package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/lens/pkg/types"
)

func TestAnalyzeRecoversDispatchTableSelectors(t *testing.T) {
	analyzer := NewAnalyzer()

	// 典型派发表片段：PUSH4 选择器 + 比较跳转
	code := []byte{
		0x63, 0xa9, 0x05, 0x9c, 0xbb, // PUSH4 transfer(address,uint256)
		0x14, 0x57, // EQ JUMPI
		0x63, 0x06, 0xfd, 0xde, 0x03, // PUSH4 name()
		0x14, 0x57,
	}

	entries := analyzer.Analyze(code)
	require.Len(t, entries, 2)

	// 选择器按数值升序
	assert.Equal(t, "0x06fdde03", entries[0].Selector)
	assert.Equal(t, "name", entries[0].Name)
	assert.Equal(t, "name()", entries[0].Signature)
	assert.Equal(t, "view", entries[0].StateMutability)
	assert.True(t, entries[0].Recovered)

	assert.Equal(t, "0xa9059cbb", entries[1].Selector)
	assert.Equal(t, "transfer", entries[1].Name)
	assert.Len(t, entries[1].Inputs, 2)
}

func TestAnalyzeSkipsPushImmediates(t *testing.T) {
	analyzer := NewAnalyzer()

	// PUSH32 立即数里藏着一个 PUSH4 形状的字节序列，不得被收割
	code := []byte{0x7f} // PUSH32
	immediate := make([]byte, 32)
	immediate[0] = 0x63 // 立即数首字节恰好是 PUSH4 操作码
	immediate[1] = 0xde
	immediate[2] = 0xad
	immediate[3] = 0xbe
	immediate[4] = 0xef
	code = append(code, immediate...)
	code = append(code, 0x63, 0xa9, 0x05, 0x9c, 0xbb) // 真正的 PUSH4

	entries := analyzer.Analyze(code)
	require.Len(t, entries, 1)
	assert.Equal(t, "0xa9059cbb", entries[0].Selector)
}

func TestAnalyzeIgnoresMaskConstants(t *testing.T) {
	analyzer := NewAnalyzer()

	code := []byte{
		0x63, 0x00, 0x00, 0x00, 0x00, // PUSH4 0x00000000
		0x63, 0xff, 0xff, 0xff, 0xff, // PUSH4 0xffffffff
	}
	assert.Empty(t, analyzer.Analyze(code))
}

func TestAnalyzeDeduplicatesSelectors(t *testing.T) {
	analyzer := NewAnalyzer()

	code := []byte{
		0x63, 0xa9, 0x05, 0x9c, 0xbb,
		0x63, 0xa9, 0x05, 0x9c, 0xbb,
	}
	assert.Len(t, analyzer.Analyze(code), 1)
}

func TestAnalyzeUnknownSelectorKeepsPlaceholder(t *testing.T) {
	analyzer := NewAnalyzer()

	code := []byte{0x63, 0x12, 0x34, 0x56, 0x78}
	entries := analyzer.Analyze(code)
	require.Len(t, entries, 1)

	assert.Equal(t, "method_0x12345678", entries[0].Name)
	assert.Equal(t, "0x12345678", entries[0].Selector)
	assert.False(t, entries[0].Recovered)
	assert.Empty(t, entries[0].Signature)
}

func TestAnalyzeEmptyCode(t *testing.T) {
	assert.Nil(t, NewAnalyzer().Analyze(nil))
	assert.Nil(t, NewAnalyzer().Analyze([]byte{}))
}

func TestAnalyzeStripsMetadataTail(t *testing.T) {
	analyzer := NewAnalyzer()

	// 元数据尾段里的 PUSH4 形状不得被收割
	code := []byte{0x60, 0x80, 0x60, 0x40} // 正文
	metadata := []byte{0x63, 0x11, 0x22, 0x33, 0x44}
	code = append(code, metadata...)
	code = append(code, 0x00, byte(len(metadata))) // 大端尾段长度

	assert.Empty(t, analyzer.Analyze(code))
}

func TestStripMetadataInvalidLengthUnchanged(t *testing.T) {
	// 尾段长度超过整段字节码：按无尾段处理
	code := []byte{0x60, 0x80, 0xff, 0xff}
	assert.Equal(t, code, stripMetadata(code))

	short := []byte{0x60}
	assert.Equal(t, short, stripMetadata(short))
}

func TestSplitSignature(t *testing.T) {
	name, params := splitSignature("transfer(address,uint256)")
	assert.Equal(t, "transfer", name)
	require.Len(t, params, 2)
	assert.Equal(t, "address", params[0].Type)
	assert.Equal(t, "uint256", params[1].Type)

	name, params = splitSignature("name()")
	assert.Equal(t, "name", name)
	assert.Empty(t, params)

	// 元组参数里的逗号不拆分
	name, params = splitSignature("swap((address,uint256),bool)")
	assert.Equal(t, "swap", name)
	require.Len(t, params, 2)
	assert.Equal(t, []types.AbiParam{
		{Type: "(address,uint256)"},
		{Type: "bool"},
	}, params)
}
