package service

import (
	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/shopspring/decimal"
)

// CreditDebitFor derives the ledger side of a transaction from its type.
func CreditDebitFor(paymentType string) string {
	switch paymentType {
	case common.PaymentTypeReceived, common.PaymentTypeRefunds:
		return common.CreditDebitCredit
	default:
		return common.CreditDebitDebit
	}
}

// InvoiceStatusFor derives the invoice status from what has been received
// against the total.
func InvoiceStatusFor(received, total decimal.Decimal) string {
	switch {
	case received.IsPositive() && total.Sub(received).IsZero():
		return common.InvoiceStatusPaid
	case received.IsPositive() && received.LessThan(total):
		return common.InvoiceStatusPartiallyPaid
	default:
		return common.InvoiceStatusPending
	}
}

// Balance is the derived money state of an invoice.
type Balance struct {
	AmountReceived  decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          string
}

// OpeningBalance validates the amounts an invoice is created with.
func OpeningBalance(total, received decimal.Decimal) (Balance, error) {
	if total.IsNegative() {
		return Balance{}, validationErr("total_amount must not be negative")
	}
	if received.IsNegative() {
		return Balance{}, validationErr("amount_received must not be negative")
	}
	if received.GreaterThan(total) {
		return Balance{}, overpaymentErr(received, total)
	}
	return Balance{
		AmountReceived:  received,
		RemainingAmount: total.Sub(received),
		Status:          InvoiceStatusFor(received, total),
	}, nil
}

// ApplyPayment adds amount to what has been received so far. Payments that
// would take the received amount past the total are rejected, never clamped.
func ApplyPayment(total, received, amount decimal.Decimal) (Balance, error) {
	if !amount.IsPositive() {
		return Balance{}, validationErr("payment amount must be positive")
	}
	newReceived := received.Add(amount)
	if newReceived.GreaterThan(total) {
		return Balance{}, overpaymentErr(newReceived, total)
	}
	return Balance{
		AmountReceived:  newReceived,
		RemainingAmount: total.Sub(newReceived),
		Status:          InvoiceStatusFor(newReceived, total),
	}, nil
}

// Rebalance re-derives remaining and status after the total changed.
func Rebalance(total, received decimal.Decimal) (Balance, error) {
	if total.IsNegative() {
		return Balance{}, validationErr("total_amount must not be negative")
	}
	if total.LessThan(received) {
		return Balance{}, validationErr("total_amount %s is below the amount already received %s", total, received)
	}
	return Balance{
		AmountReceived:  received,
		RemainingAmount: total.Sub(received),
		Status:          InvoiceStatusFor(received, total),
	}, nil
}
