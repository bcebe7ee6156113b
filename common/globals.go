package common

const (
	PaymentTypeReceived = "Received"
	PaymentTypeExpenses = "Expenses"
	PaymentTypePayments = "Payments"
	PaymentTypeRefunds  = "Refunds"

	PaymentModeOnline = "Online"
	PaymentModeCash   = "Cash"
	PaymentModeCheque = "Cheque"

	CreditDebitCredit = "credit"
	CreditDebitDebit  = "debit"

	InvoiceStatusPending       = "Pending"
	InvoiceStatusPartiallyPaid = "Partially Paid"
	InvoiceStatusPaid          = "Paid"

	// payment_type recorded for the payment synthesized when an invoice is
	// created with an amount already received
	InitialPaymentType = PaymentModeOnline

	TimeRange7Days     = "7days"
	TimeRange30Days    = "30days"
	TimeRange90Days    = "90days"
	TimeRangeCurrMonth = "currMonth"
	TimeRangePrevMonth = "prevMonth"

	TopicTransaction = "transaction"
	TopicInvoice     = "invoice"
	// subscribers of TopicAll receive the events of every topic
	TopicAll = "*"

	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventInvoiceCreated     = "invoice.created"
	EventInvoiceUpdated     = "invoice.updated"
	EventInvoicePayment     = "invoice.payment_added"

	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)
