package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/nasdaq-finance/internal/application"
	"github.com/jmanzanog/nasdaq-finance/internal/domain"
)

// QuoteService defines the batch operations exposed over HTTP
type QuoteService interface {
	GetInfo(ctx context.Context, tickers []string) []application.TickerResult[domain.CompanyInfo]
	GetPrice(ctx context.Context, tickers []string) []application.TickerResult[domain.Decimal]
	GetTicks(ctx context.Context, tickers []string) []application.TickerResult[[]domain.Tick]
}

type Handler struct {
	quoteService QuoteService
}

func NewHandler(quoteService QuoteService) *Handler {
	return &Handler{
		quoteService: quoteService,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

var errNoTickers = errors.New("at least one ticker is required in the tickers query parameter")

func (h *Handler) GetInfo(c *gin.Context) {
	single(c, h.quoteService.GetInfo)
}

func (h *Handler) ListInfo(c *gin.Context) {
	batch(c, h.quoteService.GetInfo)
}

func (h *Handler) GetPrice(c *gin.Context) {
	single(c, h.quoteService.GetPrice)
}

func (h *Handler) ListPrice(c *gin.Context) {
	batch(c, h.quoteService.GetPrice)
}

func (h *Handler) GetTicks(c *gin.Context) {
	single(c, h.quoteService.GetTicks)
}

func (h *Handler) ListTicks(c *gin.Context) {
	batch(c, h.quoteService.GetTicks)
}

// single serves /{op}/:ticker: the bare value, or 502 when the upstream
// lookup failed.
func single[T any](c *gin.Context, fetch func(context.Context, []string) []application.TickerResult[T]) {
	ticker := strings.TrimSpace(c.Param("ticker"))
	ctx := c.Request.Context()

	results := fetch(ctx, []string{ticker})
	if err := application.FirstError(results); err != nil {
		slog.ErrorContext(ctx, "Failed to load ticker", "ticker", ticker, RequestIDKey, GetRequestID(c), "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, application.Shape(results, true, false))
}

// batch serves /{op}?tickers=A,B[&objectize=true]. Per-ticker failures are
// reported in their own entries and do not change the status.
func batch[T any](c *gin.Context, fetch func(context.Context, []string) []application.TickerResult[T]) {
	ctx := c.Request.Context()

	tickers := parseTickers(c.QueryArray("tickers"))
	if len(tickers) == 0 {
		slog.WarnContext(ctx, "Batch request without tickers", RequestIDKey, GetRequestID(c))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errNoTickers.Error()})
		return
	}

	objectize, err := parseObjectize(c.Query("objectize"))
	if err != nil {
		slog.WarnContext(ctx, "Invalid objectize parameter", RequestIDKey, GetRequestID(c), "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	results := fetch(ctx, tickers)
	c.JSON(http.StatusOK, application.Shape(results, false, objectize))
}

// parseTickers splits comma-separated values, dropping blanks. Both
// ?tickers=A,B and ?tickers=A&tickers=B are accepted.
func parseTickers(values []string) []string {
	var tickers []string
	for _, v := range values {
		for _, ticker := range strings.Split(v, ",") {
			if ticker = strings.TrimSpace(ticker); ticker != "" {
				tickers = append(tickers, ticker)
			}
		}
	}
	return tickers
}

func parseObjectize(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	objectize, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New("invalid objectize value: " + value)
	}
	return objectize, nil
}
