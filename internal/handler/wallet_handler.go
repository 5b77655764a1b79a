package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/service"
	"github.com/xuri/excelize/v2"
)

type WalletHandler struct {
	svc service.WalletService
}

func NewWalletHandler(svc service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

type WalletResponse struct {
	HostUID string `json:"hostUid"`
	Cash    int64  `json:"cash"`
	Point   int64  `json:"point"`
}

type CashHistoryResponse struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Amount      int64   `json:"amount"`
	Balance     int64   `json:"balance"`
	Method      *string `json:"method,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func toCashHistoryResponse(e *model.CashHistoryEntry) CashHistoryResponse {
	return CashHistoryResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Balance:     e.Balance,
		Method:      e.Method,
		Description: e.Description,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func (h *WalletHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	w, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch wallet"))
	}
	return c.JSON(http.StatusOK, WalletResponse{HostUID: w.HostUID, Cash: w.Cash, Point: w.Point})
}

func (h *WalletHandler) Charge(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Amount      int64   `json:"amount"`
		Method      *string `json:"method"`
		Description string  `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if body.Description == "" {
		body.Description = "cash charge"
	}
	entry, err := h.svc.Charge(c.Request().Context(), uid, body.Amount, body.Method, body.Description)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toCashHistoryResponse(entry))
}

func (h *WalletHandler) Deduct(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	if body.Description == "" {
		body.Description = "cash use"
	}
	entry, err := h.svc.Deduct(c.Request().Context(), uid, body.Amount, body.Description)
	if err != nil {
		if err == service.ErrInsufficientBalance {
			return c.JSON(http.StatusConflict, NewErrorResponse("insufficient_balance", "wallet balance is insufficient"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toCashHistoryResponse(entry))
}

func (h *WalletHandler) History(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.History(c.Request().Context(), uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch history"))
	}
	resp := make([]CashHistoryResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toCashHistoryResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// ExportHistory streams the cash ledger as an xlsx workbook.
func (h *WalletHandler) ExportHistory(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.History(c.Request().Context(), uid, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch history"))
	}

	f := excelize.NewFile()
	sheet := "CashHistory"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Type", "Amount", "Balance", "Method", "Description", "CreatedAt"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, hd)
	}
	for row, e := range list {
		method := ""
		if e.Method != nil {
			method = *e.Method
		}
		values := []interface{}{e.ID, string(e.Type), e.Amount, e.Balance, method, e.Description, formatTime(e.CreatedAt)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to build export"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=cash-history-%s.xlsx", uid))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *WalletHandler) GetAutoCharge(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	s, err := h.svc.GetAutoCharge(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch setting"))
	}
	return c.JSON(http.StatusOK, s)
}

func (h *WalletHandler) PutAutoCharge(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body struct {
		Enabled         bool   `json:"enabled"`
		ThresholdAmount int64  `json:"thresholdAmount"`
		ChargeAmount    int64  `json:"chargeAmount"`
		Method          string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid body"))
	}
	s, err := h.svc.PutAutoCharge(c.Request().Context(), uid, body.Enabled, body.ThresholdAmount, body.ChargeAmount, body.Method)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, s)
}
