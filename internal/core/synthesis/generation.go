package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Generator 实现了 SurfaceGenerator 接口
var _ synthesisiface.SurfaceGenerator = (*Generator)(nil)

// systemPrompt 生成服务的任务描述
const systemPrompt = "You are a UI generator for smart contract interaction. " +
	"Given a contract's resolved interface (address, name, ABI entries, proxy chain), " +
	"produce a single self-contained HTML fragment that renders one form per callable " +
	"function and invokes it through the global provider.request(envelope) method. " +
	"Return only the markup, no commentary."

// Generator 外部生成服务客户端
//
// 请求按 chat-completion 形状发出，取第一个 choice 的消息内容
// 作为标记文本。内容缺失是 GenerationError：当个周期不产出界面，
// 只记日志，不自动重试。
type Generator struct {
	config     *synthesisconfig.Config
	session    sessioniface.Manager
	httpClient *http.Client
	logger     log.Logger
}

// chatRequest chat-completion 请求体
type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

// chatMessage 单条对话消息
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse chat-completion 响应体（只取需要的字段）
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGenerator 创建生成服务客户端
func NewGenerator(config *synthesisconfig.Config, session sessioniface.Manager, logger log.Logger) *Generator {
	return &Generator{
		config:  config,
		session: session,
		httpClient: &http.Client{
			Timeout: config.GetGenerationTimeout(),
		},
		logger: logger,
	}
}

// Generate 携带解析结果请求一次界面生成
func (g *Generator) Generate(ctx context.Context, iface *types.ResolvedInterface) (*types.GeneratedSurface, error) {
	credential := g.session.GenerationKey()
	if credential == "" {
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("生成服务未配置凭据")}
	}

	ifaceJSON, err := json.Marshal(iface)
	if err != nil {
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("序列化解析结果失败: %w", err)}
	}

	payload := chatRequest{
		Model:     g.config.GetGenerationModel(),
		MaxTokens: g.config.GetGenerationTokens(),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(ifaceJSON)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("序列化生成请求失败: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.GetGenerationURL(), bytes.NewReader(body))
	if err != nil {
		return nil, &types.GenerationError{Address: iface.Address, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		metricGeneration.WithLabelValues(outcomeFailed).Inc()
		return nil, &types.GenerationError{Address: iface.Address, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metricGeneration.WithLabelValues(outcomeFailed).Inc()
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("读取生成响应失败: %w", err)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		metricGeneration.WithLabelValues(outcomeFailed).Inc()
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("解析生成响应失败: %w", err)}
	}
	if parsed.Error != nil {
		metricGeneration.WithLabelValues(outcomeFailed).Inc()
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("生成服务返回错误: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		metricGeneration.WithLabelValues(outcomeEmpty).Inc()
		return nil, &types.GenerationError{Address: iface.Address, Err: fmt.Errorf("生成服务未返回内容")}
	}

	markup := stripCodeFence(parsed.Choices[0].Message.Content)
	metricGeneration.WithLabelValues(outcomeOK).Inc()

	return &types.GeneratedSurface{
		Address:     iface.Address,
		Name:        iface.Name,
		Markup:      markup,
		GeneratedAt: time.Now(),
	}, nil
}

// stripCodeFence 剥掉包裹整个内容的 markdown 代码栅栏
// 只处理首尾整体包裹的情况，内容中间的栅栏原样保留
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.SplitN(trimmed, "\n", 2)
	if len(lines) < 2 {
		return trimmed
	}
	body := lines[1]

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
