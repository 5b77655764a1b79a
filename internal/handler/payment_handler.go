package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/service"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type PaymentResponse struct {
	ID            uint64  `json:"id"`
	RefCode       string  `json:"refCode"`
	QuoteID       uint64  `json:"quoteId"`
	GuestUID      string  `json:"guestUid"`
	HostUID       string  `json:"hostUid"`
	Amount        int64   `json:"amount"`
	ServiceFee    int64   `json:"serviceFee"`
	TotalAmount   int64   `json:"totalAmount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	PaidAt        *string `json:"paidAt,omitempty"`
	CanceledAt    *string `json:"canceledAt,omitempty"`
	RefundedAt    *string `json:"refundedAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		RefCode:       p.RefCode,
		QuoteID:       p.QuoteID,
		GuestUID:      p.GuestUID,
		HostUID:       p.HostUID,
		Amount:        p.Amount,
		ServiceFee:    p.ServiceFee,
		TotalAmount:   p.TotalAmount,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		PaidAt:        formatTimePtr(p.PaidAt),
		CanceledAt:    formatTimePtr(p.CanceledAt),
		RefundedAt:    formatTimePtr(p.RefundedAt),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func (h *PaymentHandler) CreateFromQuote(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	quoteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid quote id"))
	}
	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	_ = c.Bind(&body)
	p, err := h.svc.CreateFromQuote(c.Request().Context(), quoteID, uid, body.PaymentMethod)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "quote not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrAlreadyPaid:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_paid", "quote already has a payment"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

func (h *PaymentHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid payment id"))
	}
	p, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch payment"))
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) Complete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid payment id"))
	}
	p, err := h.svc.Complete(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "payment is not pending"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid payment id"))
	}
	p, err := h.svc.Cancel(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "payment is not pending"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByGuest(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch payments"))
	}
	resp := make([]PaymentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPaymentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ListSales(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByHost(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch sales"))
	}
	resp := make([]PaymentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPaymentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
