package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/logger"
)

const (
	uniAddress   = "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"
	stakedUNI    = "0x00000000000000000000000000000000000051a4"
	usdcAddress  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	walletOne    = "0x000000000000000000000000000000000000dEaD"
	walletTwo    = "0x000000000000000000000000000000000000bEEF"
	oneUNI       = "1000000000000000000"
	oneHalfUNI   = "1500000000000000000"
	hundredUNI   = "100000000000000000000"
	gohmBalance  = "2000000000000000000"
	gohmPerOHM   = "4000000000000000"
	usdcBalance6 = "2500000"
)

var nopLogger = logger.NewNop()

func bigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer " + s)
	}
	return v
}

type fakeToken struct {
	decimals     uint8
	symbol       string
	balances     map[string]*big.Int
	ratio        *big.Int
	failDecimals bool
	failSymbol   bool
	failBalance  bool
}

// fakeReader serves contract reads from an in-memory token table.
type fakeReader struct {
	chain  string
	tokens map[string]*fakeToken
	calls  atomic.Int64
}

func newFakeReader(chain string, tokens map[string]*fakeToken) *fakeReader {
	lowered := make(map[string]*fakeToken, len(tokens))
	for addr, tok := range tokens {
		lowered[strings.ToLower(addr)] = tok
	}
	return &fakeReader{chain: chain, tokens: lowered}
}

func (r *fakeReader) ReadContractMethod(_ context.Context, contract string, method string, args ...any) ([]any, error) {
	r.calls.Add(1)
	fail := func(msg string) ([]any, error) {
		return nil, entity.NewRemoteCallError(r.chain, contract, method, errors.New(msg))
	}

	tok, ok := r.tokens[strings.ToLower(contract)]
	if !ok {
		return fail("execution reverted")
	}
	switch method {
	case "decimals":
		if tok.failDecimals {
			return fail("execution reverted")
		}
		return []any{tok.decimals}, nil
	case "symbol":
		if tok.failSymbol {
			return fail("execution reverted")
		}
		return []any{tok.symbol}, nil
	case "balanceOf":
		if tok.failBalance {
			return fail("execution reverted")
		}
		b := tok.balances[strings.ToLower(args[0].(string))]
		if b == nil {
			b = big.NewInt(0)
		}
		return []any{new(big.Int).Set(b)}, nil
	case "balanceTo":
		if tok.ratio == nil {
			return fail("execution reverted")
		}
		return []any{new(big.Int).Set(tok.ratio)}, nil
	}
	return fail("unknown method " + method)
}

func (r *fakeReader) ReadUint(ctx context.Context, contract string, method string, fallback *big.Int, args ...any) *big.Int {
	values, err := r.ReadContractMethod(ctx, contract, method, args...)
	if err != nil {
		return fallback
	}
	return values[0].(*big.Int)
}

func (r *fakeReader) Definition() entity.NetworkDefinition {
	return entity.NetworkDefinition{Identifier: r.chain}
}

type fakeGateway struct {
	readers map[string]*fakeReader
}

func (g *fakeGateway) Reader(_ context.Context, chain string) (port.ContractReader, error) {
	r, ok := g.readers[chain]
	if !ok {
		return nil, &entity.UnsupportedChainError{Chain: chain}
	}
	return r, nil
}

// fakePrices implements port.TokenPriceService from a fixed table keyed by
// "chain/asset" where asset is the lowercased address or "native".
type fakePrices struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  int
}

func priceKey(chain, token string) string {
	if entity.IsNativeToken(token) {
		return chain + "/" + entity.NativeToken
	}
	return chain + "/" + strings.ToLower(token)
}

func (p *fakePrices) GetPrice(_ context.Context, chain string, tokenAddress string, quote entity.QuoteCurrency) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if _, err := entity.ParseQuoteCurrency(string(quote)); err != nil {
		return 0, err
	}
	price, ok := p.prices[priceKey(chain, tokenAddress)]
	if !ok {
		return 0, &entity.MalformedPriceResponseError{AssetID: tokenAddress, Currency: string(quote), Reason: "asset key missing"}
	}
	return price, nil
}

func (p *fakePrices) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeOracle implements port.PriceOracle and counts upstream requests.
type fakeOracle struct {
	native      atomic.Int64
	token       atomic.Int64
	nativePrice float64
	tokenPrice  float64
	err         error
}

func (o *fakeOracle) GetNativePrice(context.Context, string, entity.QuoteCurrency) (float64, error) {
	o.native.Add(1)
	return o.nativePrice, o.err
}

func (o *fakeOracle) GetTokenPrice(context.Context, string, string, entity.QuoteCurrency) (float64, error) {
	o.token.Add(1)
	return o.tokenPrice, o.err
}

// gatedOracle holds every native price lookup until release is closed or the
// lookup's own ctx is done. Token prices are answered immediately.
type gatedOracle struct {
	release     chan struct{}
	started     chan struct{}
	startOnce   sync.Once
	native      atomic.Int64
	nativePrice float64
	tokenPrices map[string]float64
}

func newGatedOracle(nativePrice float64, tokenPrices map[string]float64) *gatedOracle {
	return &gatedOracle{
		release:     make(chan struct{}),
		started:     make(chan struct{}),
		nativePrice: nativePrice,
		tokenPrices: tokenPrices,
	}
}

func (o *gatedOracle) GetNativePrice(ctx context.Context, chain string, quote entity.QuoteCurrency) (float64, error) {
	o.native.Add(1)
	o.startOnce.Do(func() { close(o.started) })
	select {
	case <-o.release:
		return o.nativePrice, nil
	case <-ctx.Done():
		return 0, entity.NewRemoteCallError(chain, "coingecko", "simple/price", ctx.Err())
	}
}

func (o *gatedOracle) GetTokenPrice(_ context.Context, chain string, token string, quote entity.QuoteCurrency) (float64, error) {
	price, ok := o.tokenPrices[strings.ToLower(token)]
	if !ok {
		return 0, &entity.MalformedPriceResponseError{AssetID: token, Currency: string(quote), Reason: "asset key missing"}
	}
	return price, nil
}

// memoryStore is a minimal DecimalsStore with call counters.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entity.DecimalsEntry
	inserts int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]entity.DecimalsEntry)}
}

func (s *memoryStore) Lookup(_ context.Context, chain, token string) (entity.DecimalsEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[chain+"|"+token]
	return e, ok, nil
}

func (s *memoryStore) Insert(_ context.Context, e entity.DecimalsEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	key := e.Chain + "|" + e.Token
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = e
	return true, nil
}

func (s *memoryStore) Close() error { return nil }

func uniTokens() map[string]*fakeToken {
	return map[string]*fakeToken{
		uniAddress: {
			decimals: 18,
			symbol:   "UNI",
			balances: map[string]*big.Int{strings.ToLower(walletOne): bigInt(oneHalfUNI), strings.ToLower(walletTwo): bigInt(hundredUNI)},
		},
		stakedUNI: {
			decimals: 18,
			symbol:   "sUNI",
			balances: map[string]*big.Int{strings.ToLower(walletOne): bigInt(oneUNI)},
		},
		usdcAddress: {
			decimals: 6,
			symbol:   "USDC",
			balances: map[string]*big.Int{strings.ToLower(walletOne): bigInt(usdcBalance6)},
		},
		GOHMAddress: {
			decimals: 18,
			symbol:   "gOHM",
			balances: map[string]*big.Int{strings.ToLower(walletOne): bigInt(gohmBalance)},
			ratio:    bigInt(gohmPerOHM),
		},
	}
}
