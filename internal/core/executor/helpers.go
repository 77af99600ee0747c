package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weisyn/lens/pkg/constants"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/types"
)

// syncPollInterval 同步状态轮询间隔
const syncPollInterval = 2 * time.Second

// rawCall 执行器内部自用的单次链调用
//
// 正常业务调用走传输桥；这里只服务启动期的连通性探测与
// 同步等待，信封构造规则与桥一致（全新 UUID，协议标签 2.0）。
func rawCall(ctx context.Context, exec executoriface.NativeExecutor, method string, params interface{}) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("序列化参数失败: %w", err)
		}
		rawParams = encoded
	}

	envelope := &types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      uuid.NewString(),
		Method:  method,
		Params:  rawParams,
	}

	resp, err := exec.Request(ctx, envelope)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// waitSynced 轮询 eth_syncing 直到远端报告已同步
//
// eth_syncing 返回 false 表示已同步；返回对象表示仍在追块。
// ctx 超时或取消时放弃等待（不保证远端停止同步）。
func waitSynced(ctx context.Context, exec executoriface.NativeExecutor, logger log.Logger) error {
	for {
		result, err := rawCall(ctx, exec, constants.MethodSyncing, nil)
		if err == nil {
			var syncing bool
			if unmarshalErr := json.Unmarshal(result, &syncing); unmarshalErr == nil && !syncing {
				return nil
			}
			if logger != nil {
				logger.Debug("轻客户端仍在同步，继续等待")
			}
		} else if logger != nil {
			// 启动初期端点尚未就绪属正常情况，按同样节奏重试
			logger.Debugf("同步状态查询失败，稍后重试: %v", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("等待同步超时: %w", ctx.Err())
		case <-time.After(syncPollInterval):
		}
	}
}

// parseHexUint 解析 0x 前缀的十六进制数值结果
func parseHexUint(raw json.RawMessage) (uint64, error) {
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return 0, fmt.Errorf("解析十六进制结果失败: %w", err)
	}
	return strconv.ParseUint(strings.TrimPrefix(hexStr, "0x"), 16, 64)
}
