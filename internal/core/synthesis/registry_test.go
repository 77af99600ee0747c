package synthesis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	"github.com/weisyn/lens/pkg/types"
)

const erc20ABIFragment = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"name","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"event","name":"Transfer","anonymous":false,
	 "inputs":[{"name":"from","type":"address","indexed":true},
	           {"name":"to","type":"address","indexed":true},
	           {"name":"value","type":"uint256","indexed":false}]}
]`

func registryFor(t *testing.T, handler http.HandlerFunc, key string) *Registry {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	endpoint := server.URL
	cfg := synthesisconfig.New(&types.UserSynthesisConfig{RegistryEndpoint: &endpoint})
	return NewRegistry(cfg, &stubSession{registryKey: key}, nil)
}

func TestRegistryDisabledWithoutCredential(t *testing.T) {
	registry := registryFor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("无凭据不应发请求")
	}, "")
	assert.False(t, registry.Enabled())
}

func TestLookupABIParsesVerifiedSource(t *testing.T) {
	var query url.Values
	registry := registryFor(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		resp := map[string]string{"status": "1", "message": "OK", "result": erc20ABIFragment}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}, "api-key")
	require.True(t, registry.Enabled())

	entries, err := registry.LookupABI(context.Background(), "0xaaaa")
	require.NoError(t, err)

	// etherscan 兼容查询参数
	assert.Equal(t, "contract", query.Get("module"))
	assert.Equal(t, "getabi", query.Get("action"))
	assert.Equal(t, "0xaaaa", query.Get("address"))
	assert.Equal(t, "api-key", query.Get("apikey"))

	// 条目有序：event 在前（类型序），再按名字
	require.Len(t, entries, 3)
	assert.Equal(t, "Transfer", entries[0].Name)
	assert.Equal(t, "event", entries[0].Type)
	assert.Equal(t, "name", entries[1].Name)
	assert.Equal(t, "transfer", entries[2].Name)

	transfer := entries[2]
	assert.Equal(t, "0xa9059cbb", transfer.Selector)
	assert.Equal(t, "transfer(address,uint256)", transfer.Signature)
	assert.True(t, transfer.Recovered)
	require.Len(t, transfer.Inputs, 2)
	assert.Equal(t, "address", transfer.Inputs[0].Type)
	require.Len(t, transfer.Outputs, 1)
	assert.Equal(t, "bool", transfer.Outputs[0].Type)
}

func TestLookupABIUnverifiedContract(t *testing.T) {
	registry := registryFor(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "0", "message": "NOTOK", "result": "Contract source code not verified"}
		_ = json.NewEncoder(w).Encode(resp)
	}, "api-key")

	// status 非 "1" 一律错误，管线落入字节码分析
	_, err := registry.LookupABI(context.Background(), "0xaaaa")
	assert.Error(t, err)
}

func TestLookupABIMalformedResult(t *testing.T) {
	registry := registryFor(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "1", "message": "OK", "result": "not-json"}
		_ = json.NewEncoder(w).Encode(resp)
	}, "api-key")

	_, err := registry.LookupABI(context.Background(), "0xaaaa")
	assert.Error(t, err)
}
