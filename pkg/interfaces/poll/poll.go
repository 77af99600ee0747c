// Package poll 提供轮询循环控制器的公共接口定义
//
// 🔁 **轮询循环控制器 (Poll Loop Controller)**
//
// 本包定义周期性链刷新的控制接口：取最新区块 → 接口合成 →
// 界面生成与注入，固定间隔，周期绝不重叠。
//
// 🎯 **核心职责**：
// - 启动即先跑一个周期，不等第一个间隔
// - 上个周期完全落定之后才排下一个周期
// - 周期内失败吞掉并记日志，节奏不变
//
// ⚠️ **核心约束**：
// - 同一时刻至多一个活跃会话：新的 Start 先同步终止旧会话
// - 取消是协作式的：每个阻塞步骤之后检查会话令牌，在途工作
//   不被中断，但其结果在会话终止后不再生效
package poll

// Controller 轮询控制器接口
type Controller interface {
	// Start 启动轮询会话
	//
	// 已有活跃会话时先同步替换（supersede），不叠加。
	// 每次调用构造全新的取消令牌，陈旧循环不可能观察到新令牌。
	//
	// 返回：
	//   - teardown: 停止该会话的回调；幂等，可安全多次调用
	//   - error: 控制器已关闭等前置失败
	Start() (teardown func(), err error)

	// Stop 停止当前活跃会话（无会话时为空操作）
	Stop()

	// Active 返回是否存在活跃会话
	Active() bool

	// SessionID 返回当前会话标识，无会话时为空串
	SessionID() string
}
