package transport

import (
	"github.com/irazshakir/ArazitCRM-Production/controllers"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
)

// RegisterLedgerEndpoints mounts the accounts and invoices routes on api.
func RegisterLedgerEndpoints(svc *service.LedgerService, e *echo.Echo, api *echo.Group) {
	accountCtrl := controllers.NewAccountController(svc)
	invoiceCtrl := controllers.NewInvoiceController(svc)
	paymentCtrl := controllers.NewPaymentController(svc)

	e.GET("/health", controllers.NewHealthController(svc).Check)

	api.POST("/accounts", accountCtrl.CreateTransaction)
	api.GET("/accounts", accountCtrl.ListTransactions)
	api.GET("/accounts/export", accountCtrl.ExportTransactions)
	api.PUT("/accounts/:id", accountCtrl.UpdateTransaction)
	api.DELETE("/accounts/:id", accountCtrl.DeleteTransaction)

	api.POST("/invoices", invoiceCtrl.CreateInvoice)
	api.GET("/invoices", invoiceCtrl.ListInvoices)
	api.GET("/invoices/export", invoiceCtrl.ExportInvoices)
	api.GET("/invoices/:id", invoiceCtrl.GetInvoice)
	api.PUT("/invoices/:id", invoiceCtrl.UpdateInvoice)
	api.GET("/invoices/:id/items", invoiceCtrl.InvoiceItems)
	api.POST("/invoices/:id/payments", paymentCtrl.AddPayment)
	api.GET("/invoices/:id/payments", paymentCtrl.PaymentHistory)
}
