package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airfare/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FlightHandler struct {
	service      flights.FlightUseCase
	quoteLimiter gin.HandlerFunc
}

type FlightHandlerOption func(*FlightHandler)

// WithQuoteLimiter guards the quote route, the only one that runs the pricing engine.
func WithQuoteLimiter(l *ClientLimiter) FlightHandlerOption {
	return func(h *FlightHandler) {
		h.quoteLimiter = l.Middleware()
	}
}

func NewFlightHandler(service flights.FlightUseCase, opts ...FlightHandlerOption) *FlightHandler {
	h := &FlightHandler{service: service}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	quote := []gin.HandlerFunc{h.quote}
	if h.quoteLimiter != nil {
		quote = append([]gin.HandlerFunc{h.quoteLimiter}, quote...)
	}
	router.GET("/:id/quote", quote...)
	router.GET("/:id/fare-history", h.fareHistory)
	router.GET("/:id/demand", h.demand)
}

type quoteResponse struct {
	*flights.QuoteResult
	Price decimal.Decimal `json:"price"`
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) quote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.service.Quote(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteResponse{QuoteResult: q, Price: decimal.New(q.PriceCents, -2)})
}

func (h *FlightHandler) fareHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		if n == 0 {
			badRequest(c, flights.ErrInvalidLimit.Error())
			return
		}
		limit = n
	}
	history, err := h.service.FareHistory(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight_id": id, "history": history})
}

func (h *FlightHandler) demand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.service.Demand(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
