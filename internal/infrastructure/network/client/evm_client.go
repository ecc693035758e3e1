package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EVMClient implements port.ContractReader for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	logger         port.Logger
}

// tokenABI covers the ERC20 view methods plus balanceTo of rebasing wrappers such as gOHM.
const tokenABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"_amount","type":"uint256"}],"name":"balanceTo","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedTokenABI  abi.ABI
	parsedTokenOnce sync.Once
)

// TokenABI returns the parsed contract interface used for every read.
func TokenABI() abi.ABI {
	parsedTokenOnce.Do(func() {
		var err error
		parsedTokenABI, err = abi.JSON(strings.NewReader(tokenABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse token ABI: %v", err))
		}
	})
	return parsedTokenABI
}

// NewEVMClient dials the RPC endpoint of the given network.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, rpcURL string, connectionTimeout, rpcCallTimeout time.Duration, logger port.Logger) (*EVMClient, error) {
	TokenABI()

	dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC for network %s: %w", netDef.Identifier, err)
	}
	return &EVMClient{ethClient: client, netDef: netDef, rpcCallTimeout: rpcCallTimeout, logger: logger}, nil
}

// ReadContractMethod performs an eth_call of a view method and unpacks its outputs.
// String arguments for address parameters are converted to addresses.
func (c *EVMClient) ReadContractMethod(ctx context.Context, contractAddress string, method string, args ...any) ([]any, error) {
	fail := func(err error) ([]any, error) {
		metrics.RemoteCallFailures.WithLabelValues(c.netDef.Identifier, method).Inc()
		return nil, entity.NewRemoteCallError(c.netDef.Identifier, contractAddress, method, err)
	}

	if !common.IsHexAddress(contractAddress) {
		return fail(errors.New("malformed contract address"))
	}
	contractABI := TokenABI()
	m, ok := contractABI.Methods[method]
	if !ok {
		return fail(fmt.Errorf("method %q is not part of the token interface", method))
	}
	if len(args) != len(m.Inputs) {
		return fail(fmt.Errorf("method %q takes %d arguments, got %d", method, len(m.Inputs), len(args)))
	}

	packedArgs := make([]any, len(args))
	for i, arg := range args {
		s, isString := arg.(string)
		if isString && m.Inputs[i].Type.T == abi.AddressTy {
			if !common.IsHexAddress(s) {
				return fail(fmt.Errorf("malformed address argument %q", s))
			}
			packedArgs[i] = common.HexToAddress(s)
			continue
		}
		packedArgs[i] = arg
	}

	input, err := contractABI.Pack(method, packedArgs...)
	if err != nil {
		return fail(fmt.Errorf("failed to pack arguments: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	to := common.HexToAddress(contractAddress)
	output, err := c.ethClient.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return fail(err)
	}
	if len(output) == 0 {
		return fail(errors.New("empty result, the address may not be a contract"))
	}

	values, err := m.Outputs.Unpack(output)
	if err != nil {
		return fail(fmt.Errorf("failed to unpack result: %w", err))
	}
	if len(values) == 0 {
		return fail(errors.New("call returned no values"))
	}
	return values, nil
}

// ReadUint reads a single uint256 value and returns fallback when the read fails.
func (c *EVMClient) ReadUint(ctx context.Context, contractAddress string, method string, fallback *big.Int, args ...any) *big.Int {
	values, err := c.ReadContractMethod(ctx, contractAddress, method, args...)
	if err == nil {
		if v, ok := values[0].(*big.Int); ok {
			return v
		}
		err = fmt.Errorf("unexpected result type %T", values[0])
	}
	c.logger.Warn("Contract read failed, using fallback value",
		"network", c.netDef.Identifier,
		"contract", contractAddress,
		"method", method,
		"fallback", fallback,
		"error", err)
	return fallback
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

var _ port.ContractReader = (*EVMClient)(nil)
