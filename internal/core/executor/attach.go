// Package executor 提供原生轻客户端执行器的两种接入实现
//
// subprocess 模式由宿主监督 helios 子进程；attach 模式连接一个
// 已在运行的执行器端点，不管理其生命周期。两种模式对上层暴露
// 同一个 NativeExecutor 接口，信封转发一律原样。
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	executorconfig "github.com/weisyn/lens/internal/config/executor"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 AttachExecutor 实现了 NativeExecutor 接口
var _ executoriface.NativeExecutor = (*AttachExecutor)(nil)

// AttachExecutor 连接已在运行的执行器端点
//
// Start 只做连通性探测与同步等待，Stop 只断开连接，
// 远端进程的生命周期完全外置。
type AttachExecutor struct {
	endpoint   string
	httpClient *http.Client
	logger     log.Logger

	mu      sync.Mutex
	running bool
}

// NewAttachExecutor 创建 attach 模式执行器
func NewAttachExecutor(config *executorconfig.Config, logger log.Logger) *AttachExecutor {
	return &AttachExecutor{
		endpoint: config.GetEndpoint(),
		httpClient: &http.Client{
			Timeout: config.GetRequestTimeout(),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Start 探测端点连通性并等待同步完成
//
// attach 模式下 executionRPC/consensusRPC/chainID 仅用于校验：
// 远端执行器的链 ID 必须与期望一致，连错链直接失败。
func (e *AttachExecutor) Start(ctx context.Context, executionRPC, consensusRPC string, chainID uint64) (string, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return "", fmt.Errorf("Light client is already running")
	}
	e.mu.Unlock()

	// 连通性与链 ID 校验
	remoteChainID, err := e.probeChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("Failed to create client: %v", err)
	}
	if chainID != 0 && remoteChainID != chainID {
		return "", fmt.Errorf("Failed to create client: chain id mismatch: got %d, want %d", remoteChainID, chainID)
	}

	// 等待远端同步完成
	if err := waitSynced(ctx, e, e.logger); err != nil {
		return "", fmt.Errorf("Failed to sync client: %v", err)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return "", fmt.Errorf("Light client was started by another request")
	}
	e.running = true
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Infof("已连接执行器端点: %s (chain_id=%d)", e.endpoint, remoteChainID)
	}
	return "Light client started and synced successfully", nil
}

// Request 对单个信封执行原生往返
//
// 信封与响应都原样转发：错误负载不改写，结果字节不解释。
func (e *AttachExecutor) Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	if err := envelope.Validate(); err != nil {
		return nil, fmt.Errorf("信封校验失败: %w", err)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("序列化信封失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造HTTP请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("执行器往返失败: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取执行器响应失败: %w", err)
	}

	var bridged types.BridgedResponse
	if err := json.Unmarshal(respBody, &bridged); err != nil {
		return nil, fmt.Errorf("解析执行器响应失败: %w", err)
	}
	return &bridged, nil
}

// Running 返回是否处于运行状态
func (e *AttachExecutor) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Stop 断开连接（不影响远端进程）
func (e *AttachExecutor) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.httpClient.CloseIdleConnections()
	return nil
}

// probeChainID 查询远端链 ID
func (e *AttachExecutor) probeChainID(ctx context.Context) (uint64, error) {
	result, err := rawCall(ctx, e, "eth_chainId", nil)
	if err != nil {
		return 0, err
	}
	return parseHexUint(result)
}
