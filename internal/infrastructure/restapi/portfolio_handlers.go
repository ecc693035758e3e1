package restapi

import (
	"errors"
	"net/http"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/ledgerloader"

	"github.com/gin-gonic/gin"
)

// PortfolioResponse is the body of a successful portfolio request.
type PortfolioResponse struct {
	Balances []entity.Balance        `json:"balances"`
	Summary  entity.PortfolioSummary `json:"summary"`
	Errors   []entity.PortfolioError `json:"errors"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// PortfolioHandler serves portfolio valuation requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	ledgers          port.LedgerProvider
	defaultQuote     entity.QuoteCurrency
	logger           port.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler. ledgers may be nil,
// in which case GET /api/v1/portfolio answers 404.
func NewPortfolioHandler(ps port.PortfolioService, ledgers port.LedgerProvider, defaultQuote entity.QuoteCurrency, logger port.Logger) *PortfolioHandler {
	if defaultQuote == "" {
		defaultQuote = entity.QuoteUSD
	}
	return &PortfolioHandler{
		portfolioService: ps,
		ledgers:          ledgers,
		defaultQuote:     defaultQuote,
		logger:           logger,
	}
}

// ResolvePortfolioHandler values the ledger sent in the request body.
func (h *PortfolioHandler) ResolvePortfolioHandler(c *gin.Context) {
	quote, ok := h.quoteCurrency(c)
	if !ok {
		return
	}

	ledger, err := ledgerloader.DecodeReader(c.Request.Body)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respond(c, ledger, quote)
}

// ConfiguredPortfolioHandler values the ledger file configured on the server.
func (h *PortfolioHandler) ConfiguredPortfolioHandler(c *gin.Context) {
	if h.ledgers == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no ledger configured"})
		return
	}
	quote, ok := h.quoteCurrency(c)
	if !ok {
		return
	}

	ledger, err := h.ledgers.GetLedger()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load ledger", Details: []string{err.Error()}})
		return
	}
	h.respond(c, ledger, quote)
}

func (h *PortfolioHandler) quoteCurrency(c *gin.Context) (entity.QuoteCurrency, bool) {
	raw, present := c.GetQuery("currency")
	if !present {
		return h.defaultQuote, true
	}
	quote, err := entity.ParseQuoteCurrency(raw)
	if err != nil {
		h.abortWithError(c, err)
		return "", false
	}
	return quote, true
}

func (h *PortfolioHandler) respond(c *gin.Context, ledger entity.Ledger, quote entity.QuoteCurrency) {
	balances, failures, err := h.portfolioService.ResolvePortfolio(c.Request.Context(), ledger, quote)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if failures == nil {
		failures = []entity.PortfolioError{}
	}
	if balances == nil {
		balances = []entity.Balance{}
	}

	c.JSON(http.StatusOK, PortfolioResponse{
		Balances: balances,
		Summary:  service.Summarize(balances, quote),
		Errors:   failures,
	})
}

// abortWithError maps domain errors to status codes: validation problems are
// 400, unknown chains 422, everything else 502.
func (h *PortfolioHandler) abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: verr.Problems})
	case errors.Is(err, entity.ErrUnsupportedChain):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("Portfolio request failed", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
}
