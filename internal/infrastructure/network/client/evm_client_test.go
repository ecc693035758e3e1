package client

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	uniAddress = "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"
	holder     = "0x000000000000000000000000000000000000dEaD"
)

type rpcRequest struct {
	ID     jsoniter.RawMessage   `json:"id"`
	Method string                `json:"method"`
	Params []jsoniter.RawMessage `json:"params"`
}

type callArgs struct {
	To    string        `json:"to"`
	Input hexutil.Bytes `json:"input"`
	Data  hexutil.Bytes `json:"data"`
}

// fakeNode answers eth_call by method name using the token ABI.
type fakeNode struct {
	calls   atomic.Int64
	answers map[string]func(args []any) ([]any, error)
	block   bool
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.calls.Add(1)

	if n.block {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		return
	}

	writeErr := func(msg string) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":{"code":-32000,"message":"` + msg + `"}}`))
	}

	var args callArgs
	if req.Method != "eth_call" || len(req.Params) == 0 || json.Unmarshal(req.Params[0], &args) != nil {
		writeErr("unsupported request")
		return
	}
	input := args.Input
	if len(input) == 0 {
		input = args.Data
	}

	if len(input) < 4 {
		writeErr("execution reverted")
		return
	}
	contractABI := TokenABI()
	m, err := contractABI.MethodById(input[:4])
	if err != nil {
		writeErr("execution reverted")
		return
	}
	answer, ok := n.answers[m.Name]
	if !ok {
		writeErr("execution reverted")
		return
	}
	decoded, err := m.Inputs.Unpack(input[4:])
	if err != nil {
		writeErr(err.Error())
		return
	}
	values, err := answer(decoded)
	if err != nil {
		writeErr(err.Error())
		return
	}
	out, err := m.Outputs.Pack(values...)
	if err != nil {
		writeErr(err.Error())
		return
	}
	_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + hexutil.Encode(out) + `"}`))
}

func newTestProvider(t *testing.T, node http.Handler, rpcTimeout time.Duration) *EVMClientProvider {
	t.Helper()
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	networks := networkdefinition.NewNetworkDefinitionProvider(logger.NewNop(), "", map[string]string{
		entity.ChainEthereum: srv.URL,
	})
	p := NewEVMClientProvider(networks, configloader.Web3Config{
		RPCCallTimeoutMs:    rpcTimeout.Milliseconds(),
		ConnectionTimeoutMs: 1000,
	}, logger.NewNop())
	t.Cleanup(p.Close)
	return p
}

func uniNode() *fakeNode {
	return &fakeNode{answers: map[string]func([]any) ([]any, error){
		"decimals": func([]any) ([]any, error) { return []any{uint8(18)}, nil },
		"symbol":   func([]any) ([]any, error) { return []any{"UNI"}, nil },
		"totalSupply": func([]any) ([]any, error) {
			supply, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
			return []any{supply}, nil
		},
		"balanceOf": func(args []any) ([]any, error) {
			if args[0].(common.Address) == common.HexToAddress(holder) {
				return []any{big.NewInt(2500)}, nil
			}
			return []any{big.NewInt(0)}, nil
		},
	}}
}

func TestReadContractMethod(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, uniNode(), time.Second)

	reader, err := p.Reader(ctx, entity.ChainEthereum)
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}

	decimals, err := reader.ReadContractMethod(ctx, uniAddress, "decimals")
	if err != nil {
		t.Fatalf("decimals: %v", err)
	}
	if decimals[0].(uint8) != 18 {
		t.Errorf("decimals = %v, want 18", decimals[0])
	}

	symbol, err := reader.ReadContractMethod(ctx, uniAddress, "symbol")
	if err != nil || symbol[0].(string) != "UNI" {
		t.Errorf("symbol = %v, %v", symbol, err)
	}

	supply := reader.ReadUint(ctx, uniAddress, "totalSupply", big.NewInt(0))
	if supply.String() != "1000000000000000000000000000" {
		t.Errorf("totalSupply = %s", supply)
	}

	balance := reader.ReadUint(ctx, uniAddress, "balanceOf", big.NewInt(0), holder)
	if balance.Int64() != 2500 {
		t.Errorf("balanceOf = %s, want 2500", balance)
	}
}

func TestReaderIsCachedPerChain(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, uniNode(), time.Second)

	first, err := p.Reader(ctx, entity.ChainEthereum)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Reader(ctx, entity.ChainEthereum)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the cached reader to be reused")
	}
}

func TestReaderUnsupportedChain(t *testing.T) {
	p := newTestProvider(t, uniNode(), time.Second)

	_, err := p.Reader(context.Background(), "dogechain")
	if !errors.Is(err, entity.ErrUnsupportedChain) {
		t.Fatalf("expected unsupported chain error, got %v", err)
	}
}

func TestReadContractMethodFailures(t *testing.T) {
	ctx := context.Background()
	node := uniNode()
	delete(node.answers, "decimals")
	p := newTestProvider(t, node, time.Second)
	reader, err := p.Reader(ctx, entity.ChainEthereum)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		contract string
		method   string
		args     []any
	}{
		{"malformed contract", "0x1234", "decimals", nil},
		{"unknown method", uniAddress, "approve", nil},
		{"malformed argument", uniAddress, "balanceOf", []any{"not-an-address"}},
		{"reverted", uniAddress, "decimals", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ReadContractMethod(ctx, tt.contract, tt.method, tt.args...)
			var rce *entity.RemoteCallError
			if !errors.As(err, &rce) {
				t.Fatalf("expected RemoteCallError, got %v", err)
			}
			if rce.Method != tt.method || rce.Chain != entity.ChainEthereum {
				t.Errorf("unexpected error fields %+v", rce)
			}
		})
	}

	if got := reader.ReadUint(ctx, uniAddress, "decimals", big.NewInt(7)); got.Int64() != 7 {
		t.Errorf("ReadUint fallback = %s, want 7", got)
	}
}

func TestReadContractMethodTimeout(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, &fakeNode{block: true}, 50*time.Millisecond)
	reader, err := p.Reader(ctx, entity.ChainEthereum)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	_, err = reader.ReadContractMethod(ctx, uniAddress, "decimals")
	if !errors.Is(err, entity.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("call took %s, per-call timeout not applied", elapsed)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error message %q does not mention the timeout", err)
	}
}
