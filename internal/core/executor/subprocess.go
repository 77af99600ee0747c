package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	executorconfig "github.com/weisyn/lens/internal/config/executor"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 SubprocessExecutor 实现了 NativeExecutor 接口
var _ executoriface.NativeExecutor = (*SubprocessExecutor)(nil)

// heliosBinaryName 默认在 PATH 中查找的轻客户端二进制名
const heliosBinaryName = "helios"

// stopGracePeriod SIGTERM 后等待进程自行退出的宽限期
const stopGracePeriod = 5 * time.Second

// SubprocessExecutor 以子进程方式监督 helios 轻客户端
//
// Start 返回成功即表示子进程已拉起且共识层同步完成，
// 对应的用户可见文本原样透出到宿主界面。
type SubprocessExecutor struct {
	config *executorconfig.Config
	logger log.Logger

	// 信封往返复用 attach 客户端，指向子进程的本地 RPC 端口
	client *AttachExecutor

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewSubprocessExecutor 创建 subprocess 模式执行器
func NewSubprocessExecutor(config *executorconfig.Config, logger log.Logger) *SubprocessExecutor {
	return &SubprocessExecutor{
		config: config,
		logger: logger,
		client: NewAttachExecutor(config, logger),
	}
}

// Start 启动轻客户端子进程并等待同步完成
//
// 重复启动是错误："Light client is already running"。
// 启动失败与同步失败的文本前缀区分开，便于宿主界面直接展示。
func (e *SubprocessExecutor) Start(ctx context.Context, executionRPC, consensusRPC string, chainID uint64) (string, error) {
	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		return "", fmt.Errorf("Light client is already running")
	}
	e.mu.Unlock()

	// 1. 查找轻客户端二进制
	binary, err := e.findBinary()
	if err != nil {
		return "", fmt.Errorf("Failed to create client: %v", err)
	}

	// 2. 数据目录
	dataDir := e.config.GetDataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("Failed to create client: %v", err)
	}

	// 3. 构建命令参数
	args := []string{
		"--execution-rpc", executionRPC,
		"--consensus-rpc", consensusRPC,
		"--chain-id", strconv.FormatUint(chainID, 10),
		"--data-dir", dataDir,
		"--rpc-port", strconv.Itoa(e.config.GetRPCPort()),
	}

	cmd := exec.Command(binary, args...)
	cmd.Env = os.Environ()

	// 子进程输出汇入宿主日志，便于排障
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("Failed to create client: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("Failed to create client: %v", err)
	}

	// 4. 启动进程
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("Failed to start client: %v", err)
	}

	done := make(chan struct{})
	go e.streamLogs(stdout, "stdout")
	go e.streamLogs(stderr, "stderr")
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	// 5. 等待同步完成（超时受配置约束）
	syncCtx, cancel := context.WithTimeout(ctx, e.config.GetSyncTimeout())
	defer cancel()
	if err := waitSynced(syncCtx, e.client, e.logger); err != nil {
		// 同步失败时不留下半启动的进程
		_ = cmd.Process.Signal(syscall.SIGTERM)
		return "", fmt.Errorf("Failed to sync client: %v", err)
	}

	e.mu.Lock()
	if e.cmd != nil {
		e.mu.Unlock()
		_ = cmd.Process.Signal(syscall.SIGTERM)
		return "", fmt.Errorf("Light client was started by another request")
	}
	e.cmd = cmd
	e.done = done
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Infof("轻客户端已启动并同步完成: pid=%d chain_id=%d", cmd.Process.Pid, chainID)
	}
	return "Light client started and synced successfully", nil
}

// Request 对单个信封执行原生往返（经子进程的本地 RPC 端口）
func (e *SubprocessExecutor) Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	return e.client.Request(ctx, envelope)
}

// Running 返回子进程是否在运行
func (e *SubprocessExecutor) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// Stop 停止子进程：先 SIGTERM，宽限期后强杀
func (e *SubprocessExecutor) Stop(ctx context.Context) error {
	e.mu.Lock()
	cmd := e.cmd
	done := e.done
	e.cmd = nil
	e.done = nil
	e.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// 进程可能已经退出
		if e.logger != nil {
			e.logger.Debugf("发送SIGTERM失败: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		if e.logger != nil {
			e.logger.Warn("轻客户端未在宽限期内退出，强制结束")
		}
		_ = cmd.Process.Kill()
		<-done
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		return ctx.Err()
	}

	if e.logger != nil {
		e.logger.Info("轻客户端子进程已停止")
	}
	return nil
}

// findBinary 定位轻客户端二进制
// 优先使用配置的显式路径，否则在 PATH 中查找
func (e *SubprocessExecutor) findBinary() (string, error) {
	if path := e.config.GetBinaryPath(); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("解析二进制路径失败: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("轻客户端二进制不存在: %s", abs)
		}
		return abs, nil
	}

	path, err := exec.LookPath(heliosBinaryName)
	if err != nil {
		return "", fmt.Errorf("PATH中未找到 %s 二进制", heliosBinaryName)
	}
	return path, nil
}

// streamLogs 把子进程输出逐行汇入宿主日志
func (e *SubprocessExecutor) streamLogs(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if e.logger != nil {
			e.logger.Debugf("helios[%s]: %s", stream, scanner.Text())
		}
	}
}
