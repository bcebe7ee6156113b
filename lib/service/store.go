package service

import (
	"context"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
)

type TransactionQuery struct {
	Search string
	Type   string
	Window *Window
}

type InvoiceQuery struct {
	Search       string
	Status       string
	Window       *Window
	WithPayments bool
}

type InvoiceLoad struct {
	Items     bool
	Payments  bool
	ForUpdate bool
}

// LedgerStore is the persistence boundary of the ledger. Implementations
// return ErrNotFound for unknown ids. RunInTx hands fn a store bound to a
// single database transaction; an error from fn rolls all of its writes back.
type LedgerStore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerStore) error) error
	Ping(ctx context.Context) error

	InsertTransaction(ctx context.Context, t *models.Transaction) error
	SelectTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, error)
	SelectTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error

	InsertInvoice(ctx context.Context, invoice *models.Invoice) error
	SelectInvoices(ctx context.Context, q InvoiceQuery) ([]models.Invoice, error)
	SelectInvoice(ctx context.Context, id int64, load InvoiceLoad) (*models.Invoice, error)
	UpdateInvoiceHeader(ctx context.Context, invoice *models.Invoice) error
	UpdateInvoiceBalance(ctx context.Context, invoice *models.Invoice) error

	InsertInvoiceItems(ctx context.Context, items []models.InvoiceItem) error
	DeleteInvoiceItems(ctx context.Context, invoiceID int64) error
	SelectInvoiceItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error)

	InsertPayment(ctx context.Context, payment *models.PaymentHistory) error
	SelectPayments(ctx context.Context, invoiceID int64) ([]models.PaymentHistory, error)
}
