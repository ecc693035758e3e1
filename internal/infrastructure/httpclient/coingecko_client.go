package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinGeckoClient implements port.PriceOracle against the CoinGecko simple price API.
type CoinGeckoClient struct {
	client   *fasthttp.Client
	baseURL  string
	apiKey   string
	timeout  time.Duration
	limiter  *rate.Limiter
	networks port.NetworkDefinitionProvider
	logger   *zap.Logger
}

// NewCoinGeckoClient creates a new instance of CoinGeckoClient.
func NewCoinGeckoClient(cfg configloader.CoinGeckoConfig, networks port.NetworkDefinitionProvider, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:   &fasthttp.Client{},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		timeout:  time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		networks: networks,
		logger:   logger.Named("CoinGeckoClient"),
	}
}

// GetNativePrice returns the price of the chain's native asset.
func (c *CoinGeckoClient) GetNativePrice(ctx context.Context, chain string, quote entity.QuoteCurrency) (float64, error) {
	netDef, ok := c.networks.GetNetworkDefinitionByName(chain)
	if !ok {
		return 0, &entity.UnsupportedChainError{Chain: chain}
	}

	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(netDef.NativeAssetID), url.QueryEscape(string(quote)))

	body, err := c.get(ctx, chain, "simple/price", requestURL)
	if err != nil {
		return 0, err
	}
	return DecodePrice(body, netDef.NativeAssetID, quote)
}

// GetTokenPrice returns the price of a token contract. The address is sent lowercased.
func (c *CoinGeckoClient) GetTokenPrice(ctx context.Context, chain string, tokenAddress string, quote entity.QuoteCurrency) (float64, error) {
	if _, ok := c.networks.GetNetworkDefinitionByName(chain); !ok {
		return 0, &entity.UnsupportedChainError{Chain: chain}
	}
	token := strings.ToLower(tokenAddress)

	requestURL := fmt.Sprintf("%s/simple/token_price/%s?contract_addresses=%s&vs_currencies=%s",
		c.baseURL, url.PathEscape(chain), url.QueryEscape(token), url.QueryEscape(string(quote)))

	body, err := c.get(ctx, chain, "simple/token_price", requestURL)
	if err != nil {
		return 0, err
	}
	return DecodePrice(body, token, quote)
}

// DecodePrice extracts body[assetID][quote]. A missing or null key is a
// MalformedPriceResponseError, never a zero price.
func DecodePrice(body []byte, assetID string, quote entity.QuoteCurrency) (float64, error) {
	var payload map[string]map[string]*float64
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &entity.MalformedPriceResponseError{AssetID: assetID, Currency: string(quote), Reason: "invalid JSON: " + err.Error()}
	}
	prices, ok := payload[assetID]
	if !ok {
		return 0, &entity.MalformedPriceResponseError{AssetID: assetID, Currency: string(quote), Reason: "asset key missing"}
	}
	price, ok := prices[string(quote)]
	if !ok || price == nil {
		return 0, &entity.MalformedPriceResponseError{AssetID: assetID, Currency: string(quote), Reason: "currency key missing"}
	}
	return *price, nil
}

func (c *CoinGeckoClient) get(ctx context.Context, chain, endpoint, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, entity.NewRemoteCallError(chain, "coingecko", endpoint, err)
	}

	c.logger.Debug("Requesting price from CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		if strings.Contains(c.baseURL, "pro-api") {
			req.Header.Set("x-cg-pro-api-key", c.apiKey)
		} else {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	start := time.Now()
	err := c.client.DoDeadline(req, resp, deadline)
	metrics.PriceRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
		metrics.RemoteCallFailures.WithLabelValues(chain, endpoint).Inc()
		if errors.Is(err, fasthttp.ErrTimeout) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, entity.NewRemoteCallError(chain, "coingecko", endpoint, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		metrics.RemoteCallFailures.WithLabelValues(chain, endpoint).Inc()
		return nil, entity.NewRemoteCallError(chain, "coingecko", endpoint,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), string(resp.Body())))
	}

	// the response buffer is released with resp
	return append([]byte(nil), resp.Body()...), nil
}

var _ port.PriceOracle = (*CoinGeckoClient)(nil)
