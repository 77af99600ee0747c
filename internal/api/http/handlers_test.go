package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpconfig "github.com/weisyn/lens/internal/config/http"
	"github.com/weisyn/lens/internal/core/sandbox"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// ===== 控制面测试桩 =====

type fakeExecutor struct {
	running bool
}

func (f *fakeExecutor) Start(ctx context.Context, executionRPC, consensusRPC string, chainID uint64) (string, error) {
	return "", nil
}

func (f *fakeExecutor) Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	return nil, nil
}

func (f *fakeExecutor) Running() bool { return f.running }

func (f *fakeExecutor) Stop(ctx context.Context) error { return nil }

type fakeForkSession struct {
	baseBlock uint64
}

func (s *fakeForkSession) BlockNumber(ctx context.Context) (uint64, error) { return s.baseBlock, nil }
func (s *fakeForkSession) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	return nil, nil
}
func (s *fakeForkSession) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (s *fakeForkSession) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	return 0, nil
}
func (s *fakeForkSession) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	return common.Hash{}, nil
}
func (s *fakeForkSession) CallContract(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	return nil, nil
}
func (s *fakeForkSession) SetBalance(ctx context.Context, addr common.Address, balance *big.Int) error {
	return nil
}
func (s *fakeForkSession) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	return nil
}
func (s *fakeForkSession) SetStorageAt(ctx context.Context, addr common.Address, slot, value common.Hash) error {
	return nil
}
func (s *fakeForkSession) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	return nil
}
func (s *fakeForkSession) BaseBlock() uint64               { return s.baseBlock }
func (s *fakeForkSession) Active() bool                    { return true }
func (s *fakeForkSession) Overrides() types.StateOverride { return nil }

type fakeForkManager struct {
	mode    types.ChainMode
	session *fakeForkSession
	forkErr error
}

func (m *fakeForkManager) Fork(ctx context.Context) (chainstateiface.ForkSession, error) {
	if m.forkErr != nil {
		return nil, m.forkErr
	}
	m.mode = types.ChainModeForked
	m.session = &fakeForkSession{baseBlock: 1000}
	return m.session, nil
}

func (m *fakeForkManager) Unfork(ctx context.Context) error {
	m.mode = types.ChainModeLive
	m.session = nil
	return nil
}

func (m *fakeForkManager) Current() chainstateiface.StateReader { return m.session }

func (m *fakeForkManager) Mode() types.ChainMode {
	if m.mode == "" {
		return types.ChainModeLive
	}
	return m.mode
}

func (m *fakeForkManager) Session() (chainstateiface.ForkSession, bool) {
	if m.session == nil {
		return nil, false
	}
	return m.session, true
}

type fakePoll struct {
	active    bool
	sessionID string
}

func (p *fakePoll) Start() (func(), error) {
	p.active = true
	p.sessionID = "poll-1"
	return func() { p.active = false }, nil
}

func (p *fakePoll) Stop()             { p.active = false }
func (p *fakePoll) Active() bool      { return p.active }
func (p *fakePoll) SessionID() string { return p.sessionID }

type fakeSession struct {
	address string
}

func (s *fakeSession) Address() string { return s.address }

func (s *fakeSession) SetAddress(ctx context.Context, address string) error {
	s.address = types.NormalizeAddress(address)
	return nil
}

func (s *fakeSession) RegistryKey() string                                  { return "" }
func (s *fakeSession) SetRegistryKey(ctx context.Context, key string) error { return nil }
func (s *fakeSession) GenerationKey() string                                { return "" }
func (s *fakeSession) SetGenerationKey(ctx context.Context, key string) error {
	return nil
}

// relayBridge 只服务句柄签发与中继的桥桩
type relayBridge struct {
	relayFn func(envelope *types.RequestEnvelope) (*types.BridgedResponse, error)
	handles []*relayHandle
}

type relayHandle struct {
	bridge  *relayBridge
	token   string
	revoked bool
}

func (h *relayHandle) Token() string { return h.token }

func (h *relayHandle) Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	if h.revoked {
		return nil, types.ErrProviderRevoked
	}
	return h.bridge.relayFn(envelope)
}

func (h *relayHandle) Revoke()       { h.revoked = true }
func (h *relayHandle) Revoked() bool { return h.revoked }

func (b *relayBridge) Send(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	return nil, nil
}

func (b *relayBridge) Relay(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	return b.relayFn(envelope)
}

func (b *relayBridge) InFlight() int { return 0 }

func (b *relayBridge) NewProviderHandle() transport.ProviderHandle {
	handle := &relayHandle{bridge: b, token: "relay-token"}
	b.handles = append(b.handles, handle)
	return handle
}

// ===== 测试装置 =====

type serverFixture struct {
	server      *Server
	bridge      *relayBridge
	injector    *sandbox.Injector
	forkManager *fakeForkManager
	poll        *fakePoll
	session     *fakeSession
	executor    *fakeExecutor
}

func newServerFixture() *serverFixture {
	bridge := &relayBridge{relayFn: func(envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
		return &types.BridgedResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      envelope.ID,
			Result:  json.RawMessage(`"0x1"`),
		}, nil
	}}
	docs := sandbox.NewDocumentHost()
	injector := sandbox.NewInjector(bridge, docs, nil, nil)
	forkManager := &fakeForkManager{}
	poll := &fakePoll{}
	session := &fakeSession{}
	executor := &fakeExecutor{running: true}

	server := NewServer(httpconfig.New(nil), nil, injector, docs, forkManager, poll, session, executor)
	return &serverFixture{
		server:      server,
		bridge:      bridge,
		injector:    injector,
		forkManager: forkManager,
		poll:        poll,
		session:     session,
		executor:    executor,
	}
}

func (f *serverFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.server.router.ServeHTTP(recorder, req)
	return recorder
}

// ===== 测试 =====

func TestHealthz(t *testing.T) {
	f := newServerFixture()

	resp := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["executor_running"])
}

func TestStatusReportsForkBaseBlock(t *testing.T) {
	f := newServerFixture()

	resp := f.do(http.MethodGet, "/api/v1/status", nil)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "live", body["chain_mode"])
	assert.NotContains(t, body, "fork_base_block")

	// 分叉后状态带基准区块
	f.do(http.MethodPost, "/api/v1/fork", nil)
	resp = f.do(http.MethodGet, "/api/v1/status", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "forked", body["chain_mode"])
	assert.Equal(t, float64(1000), body["fork_base_block"])
}

func TestSetAddress(t *testing.T) {
	f := newServerFixture()

	resp := f.do(http.MethodPut, "/api/v1/session/address", map[string]string{"address": "0xAAAA"})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "0xaaaa", f.session.address)

	// 缺少地址字段
	resp = f.do(http.MethodPut, "/api/v1/session/address", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestForkAndUnfork(t *testing.T) {
	f := newServerFixture()

	resp := f.do(http.MethodPost, "/api/v1/fork", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "forked", body["mode"])
	assert.Equal(t, float64(1000), body["base_block"])

	resp = f.do(http.MethodDelete, "/api/v1/fork", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// 无分叉时再次 unfork 仍是 200
	resp = f.do(http.MethodDelete, "/api/v1/fork", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestForkUpstreamFailure(t *testing.T) {
	f := newServerFixture()
	f.forkManager.forkErr = assert.AnError

	resp := f.do(http.MethodPost, "/api/v1/fork", nil)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestPollLifecycle(t *testing.T) {
	f := newServerFixture()

	resp := f.do(http.MethodPost, "/api/v1/poll/start", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, f.poll.active)

	resp = f.do(http.MethodPost, "/api/v1/poll/stop", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, f.poll.active)
}

func TestSandboxDocumentCarriesRevision(t *testing.T) {
	f := newServerFixture()

	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Name: "Token", Markup: "<p>hi</p>",
	}))

	resp := f.do(http.MethodGet, "/sandbox", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "1", resp.Header().Get("X-Document-Revision"))
	assert.Contains(t, resp.Body.String(), "<p>hi</p>")
	assert.Contains(t, resp.Body.String(), "window.provider")
}

func TestProviderRelayRoundTrip(t *testing.T) {
	f := newServerFixture()
	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Markup: "<p/>",
	}))

	envelope := types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      "sandbox-1",
		Method:  "eth_blockNumber",
	}
	resp := f.do(http.MethodPost, "/sandbox/provider/relay-token", envelope)
	assert.Equal(t, http.StatusOK, resp.Code)

	var bridged types.BridgedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &bridged))
	assert.Equal(t, "sandbox-1", bridged.ID)
	assert.JSONEq(t, `"0x1"`, string(bridged.Result))
}

func TestProviderRelayErrorPayloadRidesInBody(t *testing.T) {
	f := newServerFixture()
	f.bridge.relayFn = func(envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
		return &types.BridgedResponse{
			JSONRPC: types.JSONRPCVersion,
			ID:      envelope.ID,
			Error:   &types.RPCError{Code: -32000, Message: "execution reverted"},
		}, nil
	}
	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Markup: "<p/>",
	}))

	envelope := types.RequestEnvelope{JSONRPC: types.JSONRPCVersion, ID: "x", Method: "eth_call"}
	resp := f.do(http.MethodPost, "/sandbox/provider/relay-token", envelope)

	// 错误负载在响应体内原样透出，HTTP 层面仍是 200
	assert.Equal(t, http.StatusOK, resp.Code)
	var bridged types.BridgedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &bridged))
	require.NotNil(t, bridged.Error)
	assert.Equal(t, -32000, bridged.Error.Code)
	assert.Equal(t, "execution reverted", bridged.Error.Message)
}

func TestProviderRelayUnknownTokenForbidden(t *testing.T) {
	f := newServerFixture()

	envelope := types.RequestEnvelope{JSONRPC: types.JSONRPCVersion, ID: "x", Method: "eth_call"}
	resp := f.do(http.MethodPost, "/sandbox/provider/stale-token", envelope)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestProviderRelayStaleTokenAfterReinjection(t *testing.T) {
	f := newServerFixture()
	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Markup: "<p>v1</p>",
	}))

	// 重新注入吊销旧句柄（桩桥每次签发同名 token，先改掉旧的以区分）
	f.bridge.handles[0].token = "old-token"
	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Markup: "<p>v2</p>",
	}))

	envelope := types.RequestEnvelope{JSONRPC: types.JSONRPCVersion, ID: "x", Method: "eth_call"}
	resp := f.do(http.MethodPost, "/sandbox/provider/old-token", envelope)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestProviderRelayInvalidEnvelope(t *testing.T) {
	f := newServerFixture()
	require.NoError(t, f.injector.Inject(context.Background(), &types.GeneratedSurface{
		Address: "0xaaaa", Markup: "<p/>",
	}))

	req := httptest.NewRequest(http.MethodPost, "/sandbox/provider/relay-token", bytes.NewReader([]byte("not-json")))
	recorder := httptest.NewRecorder()
	f.server.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
