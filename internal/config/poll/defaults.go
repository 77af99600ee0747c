package poll

// 轮询配置默认值
const (
	// defaultIntervalSec 默认周期间隔 10 秒
	// 接近主网出块节奏，刷新及时又不给上游 RPC 造成压力
	defaultIntervalSec = 10
)
