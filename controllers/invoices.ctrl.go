package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/irazshakir/ArazitCRM-Production/lib/responses"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InvoiceController : invoice ledger controller struct
type InvoiceController struct {
	svc *service.LedgerService
}

func NewInvoiceController(svc *service.LedgerService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type InvoiceItemRequestBody struct {
	ServiceName string          `json:"service_name" validate:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type CreateInvoiceRequestBody struct {
	InvoiceNumber  string                   `json:"invoiceNumber" validate:"required"`
	CreatedDate    Date                     `json:"created_date"`
	DueDate        Date                     `json:"due_date"`
	BillTo         string                   `json:"bill_to" validate:"required"`
	Notes          string                   `json:"notes"`
	TotalAmount    decimal.Decimal          `json:"total_amount"`
	AmountReceived decimal.Decimal          `json:"amount_received"`
	Items          []InvoiceItemRequestBody `json:"items" validate:"dive"`
}

type UpdateInvoiceRequestBody struct {
	CreatedDate Date                     `json:"created_date"`
	DueDate     Date                     `json:"due_date"`
	BillTo      string                   `json:"billTo"`
	Notes       string                   `json:"notes"`
	TotalAmount *decimal.Decimal         `json:"total_amount"`
	Items       []InvoiceItemRequestBody `json:"items" validate:"dive"`
}

type InvoiceListParams struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=Pending 'Partially Paid' Paid"`
	Format string `query:"format" validate:"omitempty,oneof=csv xlsx"`
	TimeParams
}

func itemInputs(items []InvoiceItemRequestBody) []service.InvoiceItemInput {
	inputs := make([]service.InvoiceItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.InvoiceItemInput{
			ServiceName: item.ServiceName,
			Description: item.Description,
			Amount:      item.Amount,
		})
	}
	return inputs
}

// CreateInvoice godoc
// @Summary      Create an invoice
// @Description  Creates an invoice with its line items. An amount already received is recorded as the first payment.
// @Accept       json
// @Produce      json
// @Tags         Invoices
// @Param        invoice  body      CreateInvoiceRequestBody  True  "Invoice"
// @Success      201      {object}  MessageResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /invoices [post]
func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	var body CreateInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if body.CreatedDate.IsZero() || body.DueDate.IsZero() {
		return c.JSON(http.StatusBadRequest, responses.RequiredFieldsMissingError)
	}

	invoice, err := controller.svc.CreateInvoice(c.Request().Context(), service.InvoiceInput{
		InvoiceNumber:  body.InvoiceNumber,
		CreatedDate:    body.CreatedDate.Time,
		DueDate:        body.DueDate.Time,
		BillTo:         body.BillTo,
		Notes:          body.Notes,
		TotalAmount:    body.TotalAmount,
		AmountReceived: body.AmountReceived,
		Items:          itemInputs(body.Items),
	})
	if err != nil {
		return responses.Send(c, "Error creating invoice", err)
	}
	return c.JSON(http.StatusCreated, &MessageResponse{
		Message: "Invoice created successfully",
		Data:    invoice,
	})
}

// ListInvoices godoc
// @Summary      List invoices
// @Description  Returns the filtered invoices with their line items, newest first
// @Produce      json
// @Tags         Invoices
// @Param        search     query     string  false  "Matches bill to or invoice number"
// @Param        status     query     string  false  "Pending, Partially Paid or Paid"
// @Param        timeRange  query     string  false  "7days, 30days, 90days, currMonth or prevMonth"
// @Param        startDate  query     string  false  "Window start, used without timeRange"
// @Param        endDate    query     string  false  "Window end (inclusive), used without timeRange"
// @Success      200        {array}   models.Invoice
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /invoices [get]
func (controller *InvoiceController) ListInvoices(c echo.Context) error {
	params, ok := controller.bindListParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	invoices, err := controller.svc.FindInvoices(c.Request().Context(), params.filter())
	if err != nil {
		return responses.Send(c, "Error fetching invoices", err)
	}
	return c.JSON(http.StatusOK, invoices)
}

func (controller *InvoiceController) bindListParams(c echo.Context) (*InvoiceListParams, bool) {
	var params InvoiceListParams
	if err := c.Bind(&params); err != nil {
		return nil, false
	}
	if err := c.Validate(&params); err != nil {
		c.Logger().Errorf("Invalid invoice list params: %v", err)
		return nil, false
	}
	return &params, true
}

func (params *InvoiceListParams) filter() service.InvoiceFilter {
	return service.InvoiceFilter{
		Search:     params.Search,
		Status:     params.Status,
		TimeFilter: params.TimeParams.filter(),
	}
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Description  Returns the invoice with its line items and payment history
// @Produce      json
// @Tags         Invoices
// @Param        id   path      int  true  "Invoice id"
// @Success      200  {object}  models.Invoice
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /invoices/{id} [get]
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, responses.InvoiceNotFoundError)
	}
	invoice, err := controller.svc.FindInvoice(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, responses.InvoiceNotFoundError)
		}
		return responses.Send(c, "Error fetching invoice", err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice godoc
// @Summary      Update an invoice
// @Description  Overwrites the invoice header. Line items, when given, replace the current ones.
// @Accept       json
// @Produce      json
// @Tags         Invoices
// @Param        id       path      int                       true  "Invoice id"
// @Param        invoice  body      UpdateInvoiceRequestBody  True  "Invoice"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /invoices/{id} [put]
func (controller *InvoiceController) UpdateInvoice(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body UpdateInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if body.CreatedDate.IsZero() || body.DueDate.IsZero() || strings.TrimSpace(body.BillTo) == "" {
		return c.JSON(http.StatusBadRequest, responses.RequiredFieldsMissingError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid update invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.UpdateInvoice(c.Request().Context(), id, service.InvoiceUpdate{
		CreatedDate: body.CreatedDate.Time,
		DueDate:     body.DueDate.Time,
		BillTo:      body.BillTo,
		Notes:       body.Notes,
		TotalAmount: body.TotalAmount,
		Items:       itemInputs(body.Items),
	})
	if err != nil {
		return responses.Send(c, "Error updating invoice", err)
	}
	return c.JSON(http.StatusOK, &MessageResponse{
		Message: "Invoice updated successfully",
		Data:    invoice,
	})
}

// InvoiceItems godoc
// @Summary      List the line items of an invoice
// @Produce      json
// @Tags         Invoices
// @Param        id   path      int  true  "Invoice id"
// @Success      200  {array}   models.InvoiceItem
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /invoices/{id}/items [get]
func (controller *InvoiceController) InvoiceItems(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	items, err := controller.svc.InvoiceItems(c.Request().Context(), id)
	if err != nil {
		return responses.Send(c, "Error fetching invoice items", err)
	}
	return c.JSON(http.StatusOK, items)
}

// ExportInvoices godoc
// @Summary      Export invoices
// @Description  Downloads the filtered invoices as csv (default) or xlsx
// @Produce      text/csv
// @Tags         Invoices
// @Param        status     query     string  false  "Pending, Partially Paid or Paid"
// @Param        timeRange  query     string  false  "7days, 30days, 90days, currMonth or prevMonth"
// @Param        format     query     string  false  "csv or xlsx"
// @Success      200        {file}    file
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /invoices/export [get]
func (controller *InvoiceController) ExportInvoices(c echo.Context) error {
	params, ok := controller.bindListParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	data, err := controller.svc.ExportInvoices(c.Request().Context(), params.filter(), params.Format)
	if err != nil {
		return responses.Send(c, "Error exporting invoices", err)
	}
	return sendExport(c, fmt.Sprintf("invoices_%s", exportDate(controller.svc)), params.Format, data)
}
