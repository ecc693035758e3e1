package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	networkdefinition "portfolio_tracker/internal/infrastructure/network/definition"
	"portfolio_tracker/internal/pkg/logger"

	"go.uber.org/zap"
)

const uniAddress = "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *CoinGeckoClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	networks := networkdefinition.NewNetworkDefinitionProvider(logger.NewNop(), "", nil)
	return NewCoinGeckoClient(configloader.CoinGeckoConfig{
		BaseURL:              srv.URL + "/api/v3/",
		APIKey:               "demo-key",
		RequestTimeoutMillis: timeout.Milliseconds(),
		RequestsPerSecond:    1000,
		Burst:                100,
	}, networks, zap.NewNop())
}

func TestGetNativePrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "avalanche-2" {
			t.Errorf("ids = %s, want avalanche-2", got)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("vs_currencies = %s", got)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo-key" {
			t.Errorf("api key header = %q", got)
		}
		_, _ = w.Write([]byte(`{"avalanche-2":{"usd":21.5}}`))
	}, time.Second)

	price, err := c.GetNativePrice(context.Background(), entity.ChainAvalanche, entity.QuoteUSD)
	if err != nil {
		t.Fatalf("GetNativePrice: %v", err)
	}
	if price != 21.5 {
		t.Fatalf("price = %v, want 21.5", price)
	}
}

func TestGetTokenPriceLowercasesAddress(t *testing.T) {
	lower := strings.ToLower(uniAddress)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/token_price/ethereum" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("contract_addresses"); got != lower {
			t.Errorf("contract_addresses = %s, want %s", got, lower)
		}
		_, _ = w.Write([]byte(`{"` + lower + `":{"btc":0.0001}}`))
	}, time.Second)

	price, err := c.GetTokenPrice(context.Background(), entity.ChainEthereum, uniAddress, entity.QuoteBTC)
	if err != nil {
		t.Fatalf("GetTokenPrice: %v", err)
	}
	if price != 0.0001 {
		t.Fatalf("price = %v", price)
	}
}

func TestMissingKeysAreMalformed(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"ethereum":{}}`,
		`{"ethereum":{"eur":100}}`,
		`{"ethereum":{"usd":null}}`,
		`not json`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, time.Second)

		price, err := c.GetNativePrice(context.Background(), entity.ChainEthereum, entity.QuoteUSD)
		if !errors.Is(err, entity.ErrMalformedPriceResponse) {
			t.Errorf("body %s: expected malformed response error, got price=%v err=%v", body, price, err)
		}
	}
}

func TestZeroPriceIsNotAnError(t *testing.T) {
	price, err := DecodePrice([]byte(`{"fantom":{"eth":0}}`), "fantom", entity.QuoteETH)
	if err != nil || price != 0 {
		t.Fatalf("price=%v err=%v, want 0 and no error", price, err)
	}
}

func TestNon200IsRemoteCallError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	}, time.Second)

	_, err := c.GetNativePrice(context.Background(), entity.ChainPolygon, entity.QuoteUSD)
	var rce *entity.RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not carry the status", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := c.GetNativePrice(context.Background(), entity.ChainEthereum, entity.QuoteUSD)
	if !errors.Is(err, entity.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestUnsupportedChain(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, time.Second)

	if _, err := c.GetTokenPrice(context.Background(), "solana", uniAddress, entity.QuoteUSD); !errors.Is(err, entity.ErrUnsupportedChain) {
		t.Fatalf("expected unsupported chain error, got %v", err)
	}
}
