package service

import (
	"context"
	"fmt"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/shopspring/decimal"
)

// Drift describes one way an invoice disagrees with its own ledger.
type Drift struct {
	InvoiceID     int64  `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Problem       string `json:"problem"`
}

func (d Drift) String() string {
	return fmt.Sprintf("invoice %d (%s): %s", d.InvoiceID, d.InvoiceNumber, d.Problem)
}

// CheckInvoice compares the stored balance of an invoice with the values
// derived from its total and its payment history.
func CheckInvoice(invoice models.Invoice) []Drift {
	var drifts []Drift
	add := func(format string, args ...interface{}) {
		drifts = append(drifts, Drift{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Problem:       fmt.Sprintf(format, args...),
		})
	}

	if !invoice.AmountReceived.Add(invoice.RemainingAmount).Equal(invoice.TotalAmount) {
		add("received %s + remaining %s != total %s", invoice.AmountReceived, invoice.RemainingAmount, invoice.TotalAmount)
	}
	if invoice.AmountReceived.GreaterThan(invoice.TotalAmount) {
		add("received %s exceeds total %s", invoice.AmountReceived, invoice.TotalAmount)
	}
	if derived := InvoiceStatusFor(invoice.AmountReceived, invoice.TotalAmount); derived != invoice.Status {
		add("status %q, expected %q", invoice.Status, derived)
	}

	// remaining_amount snapshots on payments go stale when the total is
	// edited, so only the sum of the history is compared
	paid := decimal.Zero
	for _, p := range invoice.Payments {
		paid = paid.Add(p.Amount)
	}
	if !paid.Equal(invoice.AmountReceived) {
		add("payment history sums to %s, received is %s", paid, invoice.AmountReceived)
	}
	return drifts
}

// ReconcileInvoices checks every invoice against its payment history.
func (svc *LedgerService) ReconcileInvoices(ctx context.Context) ([]Drift, error) {
	invoices, err := svc.Store.SelectInvoices(ctx, InvoiceQuery{WithPayments: true})
	if err != nil {
		return nil, storeErr("reconcile invoices", err)
	}
	var drifts []Drift
	for _, invoice := range invoices {
		drifts = append(drifts, CheckInvoice(invoice)...)
	}
	svc.Logger.Infof("reconciled %d invoices, %d problem(s) found", len(invoices), len(drifts))
	return drifts, nil
}
