package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInvoice(t *testing.T) {
	consistent := models.Invoice{
		ID:              1,
		InvoiceNumber:   "INV-1",
		TotalAmount:     dec("1000"),
		AmountReceived:  dec("400"),
		RemainingAmount: dec("600"),
		Status:          common.InvoiceStatusPartiallyPaid,
		Payments: []models.PaymentHistory{
			{ID: 1, Amount: dec("100"), RemainingAmount: dec("900")},
			{ID: 2, Amount: dec("300"), RemainingAmount: dec("600")},
		},
	}
	assert.Empty(t, service.CheckInvoice(consistent))

	wrongStatus := consistent
	wrongStatus.Status = common.InvoiceStatusPaid
	drifts := service.CheckInvoice(wrongStatus)
	require.Len(t, drifts, 1)
	assert.Equal(t, `invoice 1 (INV-1): status "Paid", expected "Partially Paid"`, drifts[0].String())

	badSum := consistent
	badSum.RemainingAmount = dec("500")
	assert.Len(t, service.CheckInvoice(badSum), 1)

	missingPayment := consistent
	missingPayment.Payments = consistent.Payments[:1]
	drifts = service.CheckInvoice(missingPayment)
	require.Len(t, drifts, 1)
	assert.Contains(t, drifts[0].Problem, "payment history sums to 100")
}

func TestReconcileInvoices(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	invoice, err := svc.CreateInvoice(ctx, invoiceInput("INV-70", "1000", "250"))
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, invoice.ID, payment("250"))
	require.NoError(t, err)

	store.PutInvoice(models.Invoice{
		InvoiceNumber:   "INV-71",
		CreatedDate:     day(2024, 1, 1),
		DueDate:         day(2024, 1, 31),
		BillTo:          "Legacy import",
		TotalAmount:     dec("100"),
		AmountReceived:  dec("100"),
		RemainingAmount: dec("0"),
		Status:          common.InvoiceStatusPending,
	})

	drifts, err := svc.ReconcileInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 2)
	for _, d := range drifts {
		assert.Equal(t, "INV-71", d.InvoiceNumber)
	}

	store.Fail("SelectInvoices", errors.New("timeout"))
	_, err = svc.ReconcileInvoices(ctx)
	var storeErr *service.StoreError
	assert.ErrorAs(t, err, &storeErr)
}
