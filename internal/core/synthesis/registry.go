// Package synthesis 实现合约接口合成管线
//
// 验证源查询 → 字节码选择器恢复 → 代理链检测 → 身份探测 →
// 界面生成。每个阶段失败都降级而不中断：空 ABI、兜底名称或
// 空代理链，取决于失败的阶段。
package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Registry 实现了 SourceRegistry 接口
var _ synthesisiface.SourceRegistry = (*Registry)(nil)

// Registry 验证源 ABI 注册表客户端（etherscan 兼容）
//
// 凭据来自会话上下文：为空时注册表停用，管线直接落入字节码分析。
type Registry struct {
	endpoint   string
	session    sessioniface.Manager
	httpClient *http.Client
	logger     log.Logger
}

// registryResponse etherscan 兼容端点的应答形状
type registryResponse struct {
	Status  string `json:"status"`  // "1" 表示成功
	Message string `json:"message"`
	Result  string `json:"result"` // 成功时为 ABI JSON 文本
}

// NewRegistry 创建注册表客户端
func NewRegistry(config *synthesisconfig.Config, session sessioniface.Manager, logger log.Logger) *Registry {
	return &Registry{
		endpoint: config.GetRegistryEndpoint(),
		session:  session,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Enabled 注册表是否已配置凭据
func (r *Registry) Enabled() bool {
	return r.session.RegistryKey() != ""
}

// LookupABI 查询已验证合约的 ABI
//
// status 非 "1"（未验证、限流、凭据无效）一律返回错误，
// 由管线落入字节码分析，不区分失败原因。
func (r *Registry) LookupABI(ctx context.Context, address string) ([]types.AbiEntry, error) {
	apiKey := r.session.RegistryKey()
	if apiKey == "" {
		return nil, fmt.Errorf("注册表未配置凭据")
	}

	query := url.Values{}
	query.Set("module", "contract")
	query.Set("action", "getabi")
	query.Set("address", address)
	query.Set("apikey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("构造注册表请求失败: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("注册表请求失败: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取注册表响应失败: %w", err)
	}

	var parsed registryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析注册表响应失败: %w", err)
	}
	if parsed.Status != "1" {
		return nil, fmt.Errorf("注册表未返回ABI: %s", parsed.Message)
	}

	entries, err := parseVerifiedABI(parsed.Result)
	if err != nil {
		return nil, fmt.Errorf("解析验证源ABI失败: %w", err)
	}
	return entries, nil
}

// parseVerifiedABI 把验证源的 ABI JSON 解析为有序接口条目
// go-ethereum 的 abi.JSON 负责结构校验与选择器计算
func parseVerifiedABI(abiJSON string) ([]types.AbiEntry, error) {
	parsed, err := gethabi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, err
	}

	// Methods/Events 是 map，遍历序不稳定，条目按名字排序保证结果可复现
	entries := make([]types.AbiEntry, 0, len(parsed.Methods)+len(parsed.Events))
	for _, method := range parsed.Methods {
		entry := types.AbiEntry{
			Type:            "function",
			Name:            method.Name,
			StateMutability: method.StateMutability,
			Selector:        "0x" + fmt.Sprintf("%x", method.ID),
			Signature:       method.Sig,
			Recovered:       true,
		}
		for _, input := range method.Inputs {
			entry.Inputs = append(entry.Inputs, types.AbiParam{Name: input.Name, Type: input.Type.String()})
		}
		for _, output := range method.Outputs {
			entry.Outputs = append(entry.Outputs, types.AbiParam{Name: output.Name, Type: output.Type.String()})
		}
		entries = append(entries, entry)
	}
	for _, event := range parsed.Events {
		entry := types.AbiEntry{
			Type:      "event",
			Name:      event.Name,
			Selector:  event.ID.Hex(),
			Signature: event.Sig,
			Recovered: true,
		}
		for _, input := range event.Inputs {
			entry.Inputs = append(entry.Inputs, types.AbiParam{Name: input.Name, Type: input.Type.String()})
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
