package controllers

import (
	"net/http"
	"strings"

	"github.com/irazshakir/ArazitCRM-Production/lib/responses"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentController : invoice payments controller struct
type PaymentController struct {
	svc *service.LedgerService
}

func NewPaymentController(svc *service.LedgerService) *PaymentController {
	return &PaymentController{svc: svc}
}

type AddPaymentRequestBody struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"paymentType"`
	PaymentDate Date            `json:"paymentDate"`
	Notes       string          `json:"notes"`
}

// AddPayment godoc
// @Summary      Apply a payment to an invoice
// @Description  Records the payment and recomputes the invoice balance and status. Payments beyond the remaining balance are rejected.
// @Accept       json
// @Produce      json
// @Tags         Payments
// @Param        id       path      int                    true  "Invoice id"
// @Param        payment  body      AddPaymentRequestBody  True  "Payment"
// @Success      201      {object}  MessageResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /invoices/{id}/payments [post]
func (controller *PaymentController) AddPayment(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.InvoiceIDRequiredError)
	}
	var body AddPaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load add payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if body.Amount.IsZero() || strings.TrimSpace(body.PaymentType) == "" || body.PaymentDate.IsZero() {
		return c.JSON(http.StatusBadRequest, responses.PaymentFieldsRequiredError)
	}

	c.Logger().Infof("Adding payment: invoice_id:%d amount:%s type:%s", id, body.Amount, body.PaymentType)

	result, err := controller.svc.AddPayment(c.Request().Context(), id, service.PaymentInput{
		Amount:      body.Amount,
		PaymentType: body.PaymentType,
		PaymentDate: body.PaymentDate.Time,
		Notes:       body.Notes,
	})
	if err != nil {
		return responses.Send(c, "Error adding payment", err)
	}
	return c.JSON(http.StatusCreated, &MessageResponse{
		Message: "Payment added successfully",
		Data:    result,
	})
}

// PaymentHistory godoc
// @Summary      List the payments of an invoice
// @Description  Latest payment first
// @Produce      json
// @Tags         Payments
// @Param        id   path      int  true  "Invoice id"
// @Success      200  {array}   models.PaymentHistory
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /invoices/{id}/payments [get]
func (controller *PaymentController) PaymentHistory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, responses.InvoiceIDRequiredError)
	}
	payments, err := controller.svc.PaymentHistory(c.Request().Context(), id)
	if err != nil {
		return responses.Send(c, "Error fetching payment history", err)
	}
	return c.JSON(http.StatusOK, payments)
}
