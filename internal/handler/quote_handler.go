package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/service"
)

type QuoteHandler struct {
	svc service.QuoteService
}

func NewQuoteHandler(svc service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

type QuoteItemResponse struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type QuoteResponse struct {
	ID                uint64              `json:"id"`
	RequestID         uint64              `json:"requestId"`
	GuestUID          string              `json:"guestUid"`
	HostUID           string              `json:"hostUid"`
	SpaceName         string              `json:"spaceName"`
	Price             int64               `json:"price"`
	Description       string              `json:"description,omitempty"`
	EstimatedDuration string              `json:"estimatedDuration,omitempty"`
	PhotoURL          *string             `json:"photoURL,omitempty"`
	Items             []QuoteItemResponse `json:"items"`
	Status            string              `json:"status"`
	ReadAt            *string             `json:"readAt,omitempty"`
	CreatedAt         string              `json:"createdAt"`
	UpdatedAt         string              `json:"updatedAt"`
}

func toQuoteResponse(q *model.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuoteItemResponse{Name: it.Name, Price: it.Price})
	}
	return QuoteResponse{
		ID:                q.ID,
		RequestID:         q.RequestID,
		GuestUID:          q.GuestUID,
		HostUID:           q.HostUID,
		SpaceName:         q.SpaceName,
		Price:             q.Price,
		Description:       q.Description,
		EstimatedDuration: q.EstimatedDuration,
		PhotoURL:          q.PhotoURL,
		Items:             items,
		Status:            string(q.Status),
		ReadAt:            formatTimePtr(q.ReadAt),
		CreatedAt:         formatTime(q.CreatedAt),
		UpdatedAt:         formatTime(q.UpdatedAt),
	}
}

type submitQuoteBody struct {
	SpaceName         string  `json:"spaceName"`
	Price             int64   `json:"price"`
	Description       string  `json:"description"`
	EstimatedDuration string  `json:"estimatedDuration"`
	PhotoURL          *string `json:"photoURL"`
	Items             []struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	} `json:"items"`
}

func (h *QuoteHandler) Submit(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request id"))
	}
	var body submitQuoteBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	in := service.QuoteInput{
		SpaceName:         body.SpaceName,
		Price:             body.Price,
		Description:       body.Description,
		EstimatedDuration: body.EstimatedDuration,
		PhotoURL:          body.PhotoURL,
	}
	for _, it := range body.Items {
		in.Items = append(in.Items, service.QuoteItemInput{Name: it.Name, Price: it.Price})
	}
	q, err := h.svc.Submit(c.Request().Context(), requestID, uid, in)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "request not found"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toQuoteResponse(q))
}

func (h *QuoteHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid quote id"))
	}
	q, err := h.svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "quote not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch quote"))
		}
	}
	return c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) ListByRequest(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request id"))
	}
	list, err := h.svc.ListByRequest(c.Request().Context(), requestID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "request not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch quotes"))
		}
	}
	resp := make([]QuoteResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toQuoteResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *QuoteHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByHost(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch quotes"))
	}
	resp := make([]QuoteResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toQuoteResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
