package controllers

import (
	"fmt"
	"net/http"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/export"
	"github.com/irazshakir/ArazitCRM-Production/lib/responses"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AccountController : accounts ledger controller struct
type AccountController struct {
	svc *service.LedgerService
}

func NewAccountController(svc *service.LedgerService) *AccountController {
	return &AccountController{svc: svc}
}

type TransactionRequestBody struct {
	PaymentDate Date            `json:"payment_date"`
	PaymentType string          `json:"payment_type" validate:"required,oneof=Received Expenses Payments Refunds"`
	PaymentMode string          `json:"payment_mode" validate:"required,oneof=Online Cash Cheque"`
	Amount      decimal.Decimal `json:"amount"`
	ClientName  string          `json:"client_name" validate:"max=255"`
	Notes       string          `json:"notes"`
}

func (body *TransactionRequestBody) input() service.TransactionInput {
	return service.TransactionInput{
		PaymentDate: body.PaymentDate.Time,
		PaymentType: body.PaymentType,
		PaymentMode: body.PaymentMode,
		Amount:      body.Amount,
		ClientName:  body.ClientName,
		Notes:       body.Notes,
	}
}

type TransactionListParams struct {
	Search string `query:"search"`
	Type   string `query:"type" validate:"omitempty,oneof=Received Expenses Payments Refunds"`
	Format string `query:"format" validate:"omitempty,oneof=csv xlsx"`
	TimeParams
}

type TransactionListResponseBody struct {
	Transactions []models.Transaction      `json:"transactions"`
	Stats        *service.TransactionStats `json:"stats"`
}

func (controller *AccountController) bindTransaction(c echo.Context) (*TransactionRequestBody, bool) {
	var body TransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transaction request body: %v", err)
		return nil, false
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid transaction request body: %v", err)
		return nil, false
	}
	if body.PaymentDate.IsZero() || !body.Amount.IsPositive() {
		c.Logger().Errorf("Invalid transaction request body: payment_date and a positive amount are required")
		return nil, false
	}
	return &body, true
}

// CreateTransaction godoc
// @Summary      Record a transaction
// @Description  Adds a row to the accounts ledger. The credit/debit side is derived from the payment type.
// @Accept       json
// @Produce      json
// @Tags         Accounts
// @Param        transaction  body      TransactionRequestBody  True  "Transaction"
// @Success      201          {object}  MessageResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /accounts [post]
func (controller *AccountController) CreateTransaction(c echo.Context) error {
	body, ok := controller.bindTransaction(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	transaction, err := controller.svc.CreateTransaction(c.Request().Context(), body.input())
	if err != nil {
		return responses.Send(c, "Error creating transaction", err)
	}
	return c.JSON(http.StatusCreated, &MessageResponse{
		Message: "Transaction created successfully",
		Data:    transaction,
	})
}

// ListTransactions godoc
// @Summary      List transactions
// @Description  Returns the filtered transactions, newest payment first, with stats over the same time window
// @Produce      json
// @Tags         Accounts
// @Param        search     query     string  false  "Matches client name or notes"
// @Param        type       query     string  false  "Payment type"
// @Param        timeRange  query     string  false  "7days, 30days, 90days, currMonth or prevMonth"
// @Param        startDate  query     string  false  "Window start, used without timeRange"
// @Param        endDate    query     string  false  "Window end (inclusive), used without timeRange"
// @Success      200        {object}  TransactionListResponseBody
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /accounts [get]
func (controller *AccountController) ListTransactions(c echo.Context) error {
	var params TransactionListParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&params); err != nil {
		c.Logger().Errorf("Invalid transaction list params: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	ctx := c.Request().Context()
	transactions, err := controller.svc.FindTransactions(ctx, service.TransactionFilter{
		Search:     params.Search,
		Type:       params.Type,
		TimeFilter: params.filter(),
	})
	if err != nil {
		return responses.Send(c, "Error fetching transactions", err)
	}
	stats, err := controller.svc.TransactionStats(ctx, params.TimeRange)
	if err != nil {
		return responses.Send(c, "Error fetching transactions", err)
	}
	return c.JSON(http.StatusOK, &TransactionListResponseBody{
		Transactions: transactions,
		Stats:        stats,
	})
}

// UpdateTransaction godoc
// @Summary      Update a transaction
// @Accept       json
// @Produce      json
// @Tags         Accounts
// @Param        id           path      int                     true  "Transaction id"
// @Param        transaction  body      TransactionRequestBody  True  "Transaction"
// @Success      200          {object}  MessageResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      404          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /accounts/{id} [put]
func (controller *AccountController) UpdateTransaction(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	body, ok := controller.bindTransaction(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	transaction, err := controller.svc.UpdateTransaction(c.Request().Context(), id, body.input())
	if err != nil {
		return responses.Send(c, "Error updating transaction", err)
	}
	return c.JSON(http.StatusOK, &MessageResponse{
		Message: "Transaction updated successfully",
		Data:    transaction,
	})
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Produce      json
// @Tags         Accounts
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /accounts/{id} [delete]
func (controller *AccountController) DeleteTransaction(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteTransaction(c.Request().Context(), id); err != nil {
		return responses.Send(c, "Error deleting transaction", err)
	}
	return c.JSON(http.StatusOK, &MessageResponse{Message: "Transaction deleted successfully"})
}

// ExportTransactions godoc
// @Summary      Export transactions
// @Description  Downloads the filtered transactions as csv (default) or xlsx
// @Produce      text/csv
// @Tags         Accounts
// @Param        timeRange  query     string  false  "7days, 30days, 90days, currMonth or prevMonth"
// @Param        format     query     string  false  "csv or xlsx"
// @Success      200        {file}    file
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /accounts/export [get]
func (controller *AccountController) ExportTransactions(c echo.Context) error {
	var params TransactionListParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&params); err != nil {
		c.Logger().Errorf("Invalid transaction export params: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	data, err := controller.svc.ExportTransactions(c.Request().Context(), service.TransactionFilter{
		Search:     params.Search,
		Type:       params.Type,
		TimeFilter: params.filter(),
	}, params.Format)
	if err != nil {
		return responses.Send(c, "Error exporting transactions", err)
	}

	timeRange := params.TimeRange
	if timeRange == "" {
		timeRange = "all"
	}
	name := fmt.Sprintf("accounts_%s_%s", timeRange, exportDate(controller.svc))
	return sendExport(c, name, params.Format, data)
}

func sendExport(c echo.Context, name, format string, data []byte) error {
	contentType, extension := "text/csv", common.ExportFormatCSV
	if format == common.ExportFormatXLSX {
		contentType, extension = export.ContentTypeXLSX, common.ExportFormatXLSX
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.%s", name, extension))
	return c.Blob(http.StatusOK, contentType, data)
}
