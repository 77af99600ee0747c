package badger

// BadgerDB 配置默认值
const (
	// defaultPath 默认数据目录
	// 只存会话键与少量簿记数据，体量很小
	defaultPath = "./data/badger"

	// defaultSyncWrites 会话键写入频率极低，同步写盘换取持久性
	defaultSyncWrites = true

	// defaultInMemory 默认落盘；内存模式仅供测试
	defaultInMemory = false
)
