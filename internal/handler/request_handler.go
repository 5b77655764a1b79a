package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/service"
)

type RequestHandler struct {
	svc service.RequestService
}

func NewRequestHandler(svc service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

type RequestResponse struct {
	ID                uint64   `json:"id"`
	GuestUID          string   `json:"guestUid"`
	OriginalQuery     string   `json:"originalQuery,omitempty"`
	SpaceType         string   `json:"spaceType"`
	Purpose           string   `json:"purpose"`
	Capacity          int      `json:"capacity"`
	Equipment         []string `json:"equipment"`
	Catering          bool     `json:"catering"`
	Parking           bool     `json:"parking"`
	AdditionalRequest string   `json:"additionalRequest,omitempty"`
	Date              string   `json:"date"`
	Location          string   `json:"location"`
	TimeSlot          string   `json:"timeSlot"`
	Category          string   `json:"category"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

func toRequestResponse(r *model.SpaceRequest) RequestResponse {
	equipment := r.Equipment
	if equipment == nil {
		equipment = []string{}
	}
	return RequestResponse{
		ID:                r.ID,
		GuestUID:          r.GuestUID,
		OriginalQuery:     r.OriginalQuery,
		SpaceType:         r.SpaceType,
		Purpose:           r.Purpose,
		Capacity:          r.Capacity,
		Equipment:         equipment,
		Catering:          r.Catering,
		Parking:           r.Parking,
		AdditionalRequest: r.AdditionalRequest,
		Date:              r.Date,
		Location:          r.Location,
		TimeSlot:          r.TimeSlot,
		Category:          r.Category,
		Status:            string(r.Status),
		CreatedAt:         formatTime(r.CreatedAt),
		UpdatedAt:         formatTime(r.UpdatedAt),
	}
}

type createRequestBody struct {
	OriginalQuery     string   `json:"originalQuery"`
	SpaceType         string   `json:"spaceType"`
	Purpose           string   `json:"purpose"`
	Capacity          int      `json:"capacity"`
	Equipment         []string `json:"equipment"`
	Catering          bool     `json:"catering"`
	Parking           bool     `json:"parking"`
	AdditionalRequest string   `json:"additionalRequest"`
	Date              string   `json:"date"`
	Location          string   `json:"location"`
	TimeSlot          string   `json:"timeSlot"`
	Category          string   `json:"category"`
}

func (h *RequestHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body createRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	req, err := h.svc.Create(c.Request().Context(), uid, service.RequestInput{
		OriginalQuery:     body.OriginalQuery,
		SpaceType:         body.SpaceType,
		Purpose:           body.Purpose,
		Capacity:          body.Capacity,
		Equipment:         body.Equipment,
		Catering:          body.Catering,
		Parking:           body.Parking,
		AdditionalRequest: body.AdditionalRequest,
		Date:              body.Date,
		Location:          body.Location,
		TimeSlot:          body.TimeSlot,
		Category:          body.Category,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toRequestResponse(req))
}

func (h *RequestHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request id"))
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "request not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch request"))
		}
	}
	return c.JSON(http.StatusOK, toRequestResponse(req))
}

func (h *RequestHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch requests"))
	}
	resp := make([]RequestResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toRequestResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RequestHandler) ListOpen(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, total, err := h.svc.ListOpen(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch requests"))
	}
	resp := make([]RequestResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toRequestResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": resp,
		"total":    total,
	})
}

type updateRequestBody struct {
	SpaceType         *string  `json:"spaceType"`
	Purpose           *string  `json:"purpose"`
	Capacity          *int     `json:"capacity"`
	Equipment         []string `json:"equipment"`
	Catering          *bool    `json:"catering"`
	Parking           *bool    `json:"parking"`
	AdditionalRequest *string  `json:"additionalRequest"`
	Date              *string  `json:"date"`
	Location          *string  `json:"location"`
	TimeSlot          *string  `json:"timeSlot"`
	Category          *string  `json:"category"`
}

func (h *RequestHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request id"))
	}
	var body updateRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	req, err := h.svc.Update(c.Request().Context(), id, uid, service.RequestPatch{
		SpaceType:         body.SpaceType,
		Purpose:           body.Purpose,
		Capacity:          body.Capacity,
		Equipment:         body.Equipment,
		Catering:          body.Catering,
		Parking:           body.Parking,
		AdditionalRequest: body.AdditionalRequest,
		Date:              body.Date,
		Location:          body.Location,
		TimeSlot:          body.TimeSlot,
		Category:          body.Category,
	})
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "request not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toRequestResponse(req))
}

func (h *RequestHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "request not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete request"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}
