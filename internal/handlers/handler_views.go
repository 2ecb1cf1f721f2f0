package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/dto"
	"github.com/pfledger/finance_ledger_app/internal/middleware"
)

// viewHandler serves the derived views, both as one-shot snapshots and as
// server-sent event streams that push a fresh emission whenever any joined
// source changes.
type viewHandler struct {
	aggregationService portssvc.AggregationSvcFacade
}

func newViewHandler(as portssvc.AggregationSvcFacade) *viewHandler {
	return &viewHandler{aggregationService: as}
}

// registerViewRoutes registers the snapshot and stream routes for derived views.
func registerViewRoutes(rg *gin.RouterGroup, aggregationService portssvc.AggregationSvcFacade) {
	h := newViewHandler(aggregationService)

	rg.GET("/accounts", h.getAccounts)
	rg.GET("/accounts/:id/history", h.getTransactionHistory)
	rg.GET("/overview", h.getOverview)
	rg.GET("/summary", h.getSummary)

	stream := rg.Group("/stream")
	{
		stream.GET("/accounts", h.streamAccounts)
		stream.GET("/accounts/:id/history", h.streamTransactionHistory)
		stream.GET("/overview", h.streamOverview)
		stream.GET("/summary", h.streamSummary)
	}
}

func (h *viewHandler) getAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	views, err := h.aggregationService.SnapshotAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute accounts view", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountViewResponse(views))
}

func (h *viewHandler) getOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	overview, err := h.aggregationService.SnapshotAccountsOverview(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute accounts overview", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overview"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewResponse(overview))
}

func (h *viewHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.aggregationService.SnapshotSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

func (h *viewHandler) getTransactionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.aggregationService.SnapshotTransactionHistory(c.Request.Context(), accountID, c.Query("search"))
	if err != nil {
		logger.Error("Failed to compute transaction history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

func (h *viewHandler) streamAccounts(c *gin.Context) {
	updates := h.aggregationService.ObserveAccounts(c.Request.Context())
	streamSSE(c, "accounts", func() (any, bool) {
		views, ok := <-updates
		if !ok {
			return nil, false
		}
		return dto.ToListAccountViewResponse(views), true
	})
}

func (h *viewHandler) streamOverview(c *gin.Context) {
	updates := h.aggregationService.ObserveAccountsOverview(c.Request.Context())
	streamSSE(c, "overview", func() (any, bool) {
		overview, ok := <-updates
		if !ok {
			return nil, false
		}
		return dto.ToOverviewResponse(overview), true
	})
}

func (h *viewHandler) streamSummary(c *gin.Context) {
	updates := h.aggregationService.ObserveSummary(c.Request.Context())
	streamSSE(c, "summary", func() (any, bool) {
		summary, ok := <-updates
		if !ok {
			return nil, false
		}
		return dto.ToSummaryResponse(summary), true
	})
}

func (h *viewHandler) streamTransactionHistory(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	updates := h.aggregationService.ObserveTransactionHistory(c.Request.Context(), accountID, c.Query("search"))
	streamSSE(c, "history", func() (any, bool) {
		history, ok := <-updates
		if !ok {
			return nil, false
		}
		return dto.ToHistoryResponse(history), true
	})
}

// streamSSE drains next() into server-sent events until the subscription
// channel closes, which happens when the client disconnects.
func streamSSE(c *gin.Context, event string, next func() (any, bool)) {
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		payload, ok := next()
		if !ok {
			return false
		}
		c.SSEvent(event, payload)
		return true
	})
}
