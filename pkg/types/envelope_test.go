package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeValidate(t *testing.T) {
	envelope := &RequestEnvelope{
		JSONRPC: JSONRPCVersion,
		ID:      "11111111-2222-3333-4444-555555555555",
		Method:  "eth_blockNumber",
	}
	require.NoError(t, envelope.Validate())
}

func TestEnvelopeValidateRejectsBadVersion(t *testing.T) {
	envelope := &RequestEnvelope{JSONRPC: "1.0", ID: "id", Method: "eth_chainId"}
	assert.Error(t, envelope.Validate())
}

func TestEnvelopeValidateRejectsMissingFields(t *testing.T) {
	assert.Error(t, (&RequestEnvelope{JSONRPC: JSONRPCVersion, Method: "eth_chainId"}).Validate())
	assert.Error(t, (&RequestEnvelope{JSONRPC: JSONRPCVersion, ID: "id"}).Validate())
}

func TestRPCErrorMethodSet(t *testing.T) {
	rpcErr := &RPCError{Code: -32000, Message: "execution reverted", Data: json.RawMessage(`"0x08c379a0"`)}

	assert.Equal(t, "execution reverted", rpcErr.Error())
	assert.Equal(t, -32000, rpcErr.ErrorCode())
	assert.Equal(t, json.RawMessage(`"0x08c379a0"`), rpcErr.ErrorData())
}

func TestRPCErrorWithoutMessage(t *testing.T) {
	rpcErr := &RPCError{Code: -32601}
	assert.Equal(t, "json-rpc error -32601", rpcErr.Error())
	assert.Nil(t, rpcErr.ErrorData())
}
