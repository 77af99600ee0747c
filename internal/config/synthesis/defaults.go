package synthesis

// 接口合成配置默认值
const (
	// defaultRegistryEndpoint etherscan 兼容的验证源查询端点
	// 凭据（apikey）由会话上下文提供，凭据为空时注册表阶段整体停用
	defaultRegistryEndpoint = "https://api.etherscan.io/api"

	// defaultFollowProxies 默认追踪代理链
	// 代理后面的实现合约才是用户真正想交互的接口
	defaultFollowProxies = true

	// defaultMaxProxyHops 代理链跳数上限
	// 线上真实代理链极少超过两跳；上限同时兜住环路检测失效的情况
	defaultMaxProxyHops = 4

	// defaultCacheSurfaces 默认每个周期重新生成界面
	// 重新生成让界面始终展示最新默认值；需要省外呼的用户显式开启缓存
	defaultCacheSurfaces = false

	// defaultCacheTTLSec 界面缓存存活时间
	defaultCacheTTLSec = 600

	// defaultGenerationURL 生成服务端点（chat-completion 形状）
	defaultGenerationURL = "https://api.openai.com/v1/chat/completions"

	// defaultGenerationModel 生成服务模型名
	defaultGenerationModel = "gpt-4o"

	// defaultGenerationTokens 单次生成的 max_tokens
	// 一整页交互界面的标记文本通常在 2-3k token 内
	defaultGenerationTokens = 4096

	// defaultGenTimeoutSec 生成请求超时
	// 生成是周期内最慢的一步，给足余量但不能拖垮轮询节奏
	defaultGenTimeoutSec = 60
)
