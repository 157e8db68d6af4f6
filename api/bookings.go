package api

import (
	"net/http"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type reserveRequest struct {
	FlightID         int64  `json:"flight_id"`
	Seats            int    `json:"seats"`
	PassengerName    string `json:"passenger_name"`
	PassengerContact string `json:"passenger_contact"`
}

type reserveResponse struct {
	*booking.ReserveResult
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
}

type confirmRequest struct {
	PaymentSuccess *bool              `json:"payment_success"`
	PaymentMeta    domain.PaymentMeta `json:"payment_meta"`
}

type cancelRequest struct {
	BookingID  int64          `json:"booking_id"`
	Reference  string         `json:"reference"`
	Refund     bool           `json:"refund"`
	RefundMeta map[string]any `json:"refund_meta"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/reserve", h.reserve)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/cancel", h.cancel)
	router.GET("/:id", h.get)
	router.GET("/lookup/:reference", h.lookup)
}

func (h *BookingHandler) reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.service.Reserve(c.Request.Context(), booking.ReserveInput{
		FlightID:         req.FlightID,
		Seats:            req.Seats,
		PassengerName:    req.PassengerName,
		PassengerContact: req.PassengerContact,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reserveResponse{ReserveResult: res, PriceSnapshot: decimal.New(res.PriceSnapshotCents, -2)})
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.PaymentSuccess == nil {
		badRequest(c, "payment_success is required")
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), booking.ConfirmInput{
		BookingID:      id,
		PaymentSuccess: *req.PaymentSuccess,
		PaymentMeta:    req.PaymentMeta,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), booking.CancelInput{
		BookingID:  req.BookingID,
		Reference:  req.Reference,
		Refund:     req.Refund,
		RefundMeta: req.RefundMeta,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) lookup(c *gin.Context) {
	b, err := h.service.Lookup(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
