package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	executorconfig "github.com/weisyn/lens/internal/config/executor"
	"github.com/weisyn/lens/pkg/types"
)

// rpcStub 标准 JSON-RPC 端点桩：按方法派发固定应答
func rpcStub(t *testing.T, handlers map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope types.RequestEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": envelope.ID}
		if result, ok := handlers[envelope.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func attachFor(endpoint string) *AttachExecutor {
	mode := string(executorconfig.ModeAttach)
	cfg := executorconfig.New(&types.UserExecutorConfig{
		Mode:     &mode,
		Endpoint: &endpoint,
	})
	return NewAttachExecutor(cfg, nil)
}

func TestAttachStartProbesAndSyncs(t *testing.T) {
	server := rpcStub(t, map[string]interface{}{
		"eth_chainId": "0x1",
		"eth_syncing": false,
	})
	exec := attachFor(server.URL)

	msg, err := exec.Start(context.Background(), "", "", 1)
	require.NoError(t, err)
	assert.Equal(t, "Light client started and synced successfully", msg)
	assert.True(t, exec.Running())
}

func TestAttachStartRejectsChainIDMismatch(t *testing.T) {
	server := rpcStub(t, map[string]interface{}{
		"eth_chainId": "0x5",
		"eth_syncing": false,
	})
	exec := attachFor(server.URL)

	_, err := exec.Start(context.Background(), "", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create client")
	assert.Contains(t, err.Error(), "chain id mismatch")
	assert.False(t, exec.Running())
}

func TestAttachDoubleStartIsError(t *testing.T) {
	server := rpcStub(t, map[string]interface{}{
		"eth_chainId": "0x1",
		"eth_syncing": false,
	})
	exec := attachFor(server.URL)

	_, err := exec.Start(context.Background(), "", "", 1)
	require.NoError(t, err)

	_, err = exec.Start(context.Background(), "", "", 1)
	require.Error(t, err)
	assert.Equal(t, "Light client is already running", err.Error())
}

func TestAttachStartUnreachableEndpoint(t *testing.T) {
	exec := attachFor("http://127.0.0.1:1")

	_, err := exec.Start(context.Background(), "", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create client")
}

func TestAttachRequestRoundTrip(t *testing.T) {
	server := rpcStub(t, map[string]interface{}{
		"eth_blockNumber": "0x10",
	})
	exec := attachFor(server.URL)

	resp, err := exec.Request(context.Background(), &types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      "req-1",
		Method:  "eth_blockNumber",
	})
	require.NoError(t, err)

	assert.Equal(t, "req-1", resp.ID)
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `"0x10"`, string(resp.Result))
}

func TestAttachRequestPreservesErrorPayload(t *testing.T) {
	server := rpcStub(t, nil)
	exec := attachFor(server.URL)

	resp, err := exec.Request(context.Background(), &types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      "req-2",
		Method:  "eth_unknownMethod",
	})
	require.NoError(t, err)

	// 错误负载原样带回，不转成传输错误
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Equal(t, "method not found", resp.Error.Message)
}

func TestAttachRequestRejectsInvalidEnvelope(t *testing.T) {
	exec := attachFor("http://unused")

	_, err := exec.Request(context.Background(), &types.RequestEnvelope{
		JSONRPC: "1.0",
		ID:      "x",
		Method:  "eth_blockNumber",
	})
	assert.Error(t, err)
}

func TestAttachStopDisconnectsOnly(t *testing.T) {
	server := rpcStub(t, map[string]interface{}{
		"eth_chainId": "0x1",
		"eth_syncing": false,
	})
	exec := attachFor(server.URL)

	_, err := exec.Start(context.Background(), "", "", 1)
	require.NoError(t, err)

	require.NoError(t, exec.Stop(context.Background()))
	assert.False(t, exec.Running())

	// 停止后可以重新接入
	_, err = exec.Start(context.Background(), "", "", 1)
	assert.NoError(t, err)
}
