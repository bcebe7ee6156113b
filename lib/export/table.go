package export

import (
	"time"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/uptrace/bun"
)

const (
	timestampLayout = "2006-01-02T15:04:05.000Z"
	dateLayout      = "2006-01-02"
)

// Table is a header row plus records already rendered to strings. FreeText
// marks the columns that hold user typed text.
type Table struct {
	Headers  []string
	Rows     [][]string
	FreeText map[int]bool
}

var TransactionHeaders = []string{
	"Payment Date",
	"Payment Type",
	"Payment Mode",
	"Amount",
	"Client Name",
	"Credit/Debit",
	"Notes",
	"Created At",
	"Updated At",
}

var InvoiceHeaders = []string{
	"Invoice Number",
	"Created Date",
	"Due Date",
	"Bill To",
	"Total Amount",
	"Amount Received",
	"Remaining Amount",
	"Status",
	"Notes",
	"Created At",
	"Updated At",
}

func TransactionTable(transactions []models.Transaction) Table {
	t := Table{
		Headers:  TransactionHeaders,
		Rows:     make([][]string, 0, len(transactions)),
		FreeText: map[int]bool{4: true, 6: true},
	}
	for _, tx := range transactions {
		t.Rows = append(t.Rows, []string{
			timestamp(tx.PaymentDate),
			tx.PaymentType,
			tx.PaymentMode,
			tx.Amount.String(),
			tx.ClientName,
			tx.PaymentCreditDebit,
			tx.Notes,
			timestamp(tx.CreatedAt),
			nullTimestamp(tx.UpdatedAt),
		})
	}
	return t
}

func InvoiceTable(invoices []models.Invoice) Table {
	t := Table{
		Headers:  InvoiceHeaders,
		Rows:     make([][]string, 0, len(invoices)),
		FreeText: map[int]bool{0: true, 3: true, 8: true},
	}
	for _, inv := range invoices {
		t.Rows = append(t.Rows, []string{
			inv.InvoiceNumber,
			date(inv.CreatedDate),
			date(inv.DueDate),
			inv.BillTo,
			inv.TotalAmount.String(),
			inv.AmountReceived.String(),
			inv.RemainingAmount.String(),
			inv.Status,
			inv.Notes,
			timestamp(inv.CreatedAt),
			nullTimestamp(inv.UpdatedAt),
		})
	}
	return t
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func nullTimestamp(t bun.NullTime) string {
	return timestamp(t.Time)
}

// date renders the calendar day as stored, without a zone shift.
func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
