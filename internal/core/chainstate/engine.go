package chainstate

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/weisyn/lens/pkg/constants"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 RemoteEngine 实现了 SimulationEngine 接口
var _ chainstateiface.SimulationEngine = (*RemoteEngine)(nil)

// RemoteEngine 默认执行引擎
//
// 执行语义完全外置：调用连同基准区块与叠加层覆盖集一起交给
// 上游节点的 eth_call，宿主内不做任何 EVM 解释。
type RemoteEngine struct {
	bridge transport.Bridge
}

// NewRemoteEngine 创建默认执行引擎
func NewRemoteEngine(bridge transport.Bridge) *RemoteEngine {
	return &RemoteEngine{bridge: bridge}
}

// Execute 在基准区块与给定覆盖集上执行只读调用
func (e *RemoteEngine) Execute(ctx context.Context, msg types.CallMsg, baseBlock uint64, overrides types.StateOverride) ([]byte, error) {
	blockTag := hexutil.EncodeUint64(baseBlock)

	// 覆盖集为空时省略第三个参数，与标准 eth_call 形状一致
	var raw []byte
	var err error
	if overrides.Empty() {
		raw, err = e.bridge.Send(ctx, constants.MethodCall, msg, blockTag)
	} else {
		raw, err = e.bridge.Send(ctx, constants.MethodCall, msg, blockTag, overrides)
	}
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(raw)
}
