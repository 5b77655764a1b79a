package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/service"
)

type RefundHandler struct {
	svc service.RefundService
}

func NewRefundHandler(svc service.RefundService) *RefundHandler {
	return &RefundHandler{svc: svc}
}

type RefundResponse struct {
	ID             uint64  `json:"id"`
	PaymentID      uint64  `json:"paymentId"`
	GuestUID       string  `json:"guestUid"`
	HostUID        string  `json:"hostUid"`
	OriginalAmount int64   `json:"originalAmount"`
	RefundAmount   *int64  `json:"refundAmount,omitempty"`
	RefundReason   string  `json:"refundReason,omitempty"`
	Status         string  `json:"status"`
	RequestedAt    string  `json:"requestedAt"`
	CompletedAt    *string `json:"completedAt,omitempty"`
}

func toRefundResponse(rf *model.Refund) RefundResponse {
	return RefundResponse{
		ID:             rf.ID,
		PaymentID:      rf.PaymentID,
		GuestUID:       rf.GuestUID,
		HostUID:        rf.HostUID,
		OriginalAmount: rf.OriginalAmount,
		RefundAmount:   rf.RefundAmount,
		RefundReason:   rf.RefundReason,
		Status:         string(rf.Status),
		RequestedAt:    formatTime(rf.RequestedAt),
		CompletedAt:    formatTimePtr(rf.CompletedAt),
	}
}

func (h *RefundHandler) Request(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid payment id"))
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)
	rf, err := h.svc.Request(c.Request().Context(), paymentID, uid, body.Reason)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "payment is not completed"))
		case service.ErrRefundExists:
			return c.JSON(http.StatusConflict, NewErrorResponse("refund_exists", "payment already has a refund request"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toRefundResponse(rf))
}

func (h *RefundHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid refund id"))
	}
	rf, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "refund not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch refund"))
		}
	}
	return c.JSON(http.StatusOK, toRefundResponse(rf))
}

func (h *RefundHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch refunds"))
	}
	resp := make([]RefundResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toRefundResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RefundHandler) MarkProcessing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid refund id"))
	}
	rf, err := h.svc.MarkProcessing(c.Request().Context(), id, uid)
	if err != nil {
		return h.transitionError(c, err)
	}
	return c.JSON(http.StatusOK, toRefundResponse(rf))
}

func (h *RefundHandler) Complete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid refund id"))
	}
	var body struct {
		RefundAmount *int64 `json:"refundAmount"`
	}
	_ = c.Bind(&body)
	rf, err := h.svc.Complete(c.Request().Context(), id, uid, body.RefundAmount)
	if err != nil {
		if err == service.ErrInsufficientBalance {
			return c.JSON(http.StatusConflict, NewErrorResponse("insufficient_balance", "wallet balance cannot cover the refund"))
		}
		return h.transitionError(c, err)
	}
	return c.JSON(http.StatusOK, toRefundResponse(rf))
}

func (h *RefundHandler) Reject(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid refund id"))
	}
	rf, err := h.svc.Reject(c.Request().Context(), id, uid)
	if err != nil {
		return h.transitionError(c, err)
	}
	return c.JSON(http.StatusOK, toRefundResponse(rf))
}

func (h *RefundHandler) transitionError(c echo.Context, err error) error {
	switch err {
	case service.ErrNotFound:
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "refund not found"))
	case service.ErrForbidden:
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
	case service.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "refund state does not allow this"))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
}
