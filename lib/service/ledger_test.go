package service_test

import (
	"testing"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/stretchr/testify/assert"
)

func TestCreditDebitFor(t *testing.T) {
	assert.Equal(t, common.CreditDebitCredit, service.CreditDebitFor(common.PaymentTypeReceived))
	assert.Equal(t, common.CreditDebitCredit, service.CreditDebitFor(common.PaymentTypeRefunds))
	assert.Equal(t, common.CreditDebitDebit, service.CreditDebitFor(common.PaymentTypeExpenses))
	assert.Equal(t, common.CreditDebitDebit, service.CreditDebitFor(common.PaymentTypePayments))
}

func TestInvoiceStatusFor(t *testing.T) {
	tests := []struct {
		received, total string
		want            string
	}{
		{"0", "1000", common.InvoiceStatusPending},
		{"0", "0", common.InvoiceStatusPending},
		{"0.01", "1000", common.InvoiceStatusPartiallyPaid},
		{"999.99", "1000", common.InvoiceStatusPartiallyPaid},
		{"1000", "1000", common.InvoiceStatusPaid},
		{"1000.00", "1000", common.InvoiceStatusPaid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.InvoiceStatusFor(dec(tt.received), dec(tt.total)), "%s of %s", tt.received, tt.total)
	}
}

func TestOpeningBalance(t *testing.T) {
	balance, err := service.OpeningBalance(dec("1200"), dec("500"))
	assert.NoError(t, err)
	assert.True(t, balance.RemainingAmount.Equal(dec("700")))
	assert.Equal(t, common.InvoiceStatusPartiallyPaid, balance.Status)

	_, err = service.OpeningBalance(dec("100"), dec("100.01"))
	assert.ErrorIs(t, err, service.ErrOverpayment)

	_, err = service.OpeningBalance(dec("-1"), dec("0"))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = service.OpeningBalance(dec("10"), dec("-1"))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestApplyPayment(t *testing.T) {
	balance, err := service.ApplyPayment(dec("1000"), dec("0"), dec("400"))
	assert.NoError(t, err)
	assert.True(t, balance.AmountReceived.Equal(dec("400")))
	assert.True(t, balance.RemainingAmount.Equal(dec("600")))
	assert.Equal(t, common.InvoiceStatusPartiallyPaid, balance.Status)

	balance, err = service.ApplyPayment(dec("1000"), dec("400"), dec("600"))
	assert.NoError(t, err)
	assert.True(t, balance.RemainingAmount.IsZero())
	assert.Equal(t, common.InvoiceStatusPaid, balance.Status)

	// decimals add up exactly
	balance, err = service.ApplyPayment(dec("0.3"), dec("0.1"), dec("0.2"))
	assert.NoError(t, err)
	assert.Equal(t, common.InvoiceStatusPaid, balance.Status)

	_, err = service.ApplyPayment(dec("1000"), dec("1000"), dec("1"))
	assert.ErrorIs(t, err, service.ErrOverpayment)

	_, err = service.ApplyPayment(dec("1000"), dec("0"), dec("0"))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = service.ApplyPayment(dec("1000"), dec("0"), dec("-5"))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRebalance(t *testing.T) {
	balance, err := service.Rebalance(dec("1500"), dec("1000"))
	assert.NoError(t, err)
	assert.True(t, balance.RemainingAmount.Equal(dec("500")))
	assert.Equal(t, common.InvoiceStatusPartiallyPaid, balance.Status)

	balance, err = service.Rebalance(dec("1000"), dec("1000"))
	assert.NoError(t, err)
	assert.Equal(t, common.InvoiceStatusPaid, balance.Status)

	_, err = service.Rebalance(dec("999"), dec("1000"))
	assert.ErrorIs(t, err, service.ErrValidation)
}
