package service

import (
	"context"
	"strings"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/export"
	"github.com/shopspring/decimal"
)

type InvoiceItemInput struct {
	ServiceName string
	Description string
	Amount      decimal.Decimal
}

type InvoiceInput struct {
	InvoiceNumber  string
	CreatedDate    time.Time
	DueDate        time.Time
	BillTo         string
	Notes          string
	TotalAmount    decimal.Decimal
	AmountReceived decimal.Decimal
	Items          []InvoiceItemInput
}

// InvoiceUpdate overwrites the invoice header. A nil TotalAmount keeps the
// current total and empty Items keeps the current line items.
type InvoiceUpdate struct {
	CreatedDate time.Time
	DueDate     time.Time
	BillTo      string
	Notes       string
	TotalAmount *decimal.Decimal
	Items       []InvoiceItemInput
}

type PaymentInput struct {
	Amount      decimal.Decimal
	PaymentType string
	PaymentDate time.Time
	Notes       string
}

type InvoiceFilter struct {
	Search string
	Status string
	TimeFilter
}

type PaymentResult struct {
	Payment *models.PaymentHistory `json:"payment"`
	Invoice *models.Invoice        `json:"invoice"`
}

func validateItems(items []InvoiceItemInput) error {
	for i, item := range items {
		if strings.TrimSpace(item.ServiceName) == "" {
			return validationErr("item %d: service_name is required", i)
		}
		if item.Amount.IsNegative() {
			return validationErr("item %d: amount must not be negative", i)
		}
	}
	return nil
}

func itemModels(invoiceID int64, items []InvoiceItemInput) []models.InvoiceItem {
	result := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		result = append(result, models.InvoiceItem{
			InvoiceID:   invoiceID,
			ServiceName: item.ServiceName,
			Description: item.Description,
			Amount:      item.Amount,
		})
	}
	return result
}

func validateDates(created, due time.Time) error {
	if created.IsZero() {
		return validationErr("created_date is required")
	}
	if due.IsZero() {
		return validationErr("due_date is required")
	}
	return nil
}

// CreateInvoice stores the invoice, its items and, when money was already
// received, the opening payment. Either all of it is written or nothing.
func (svc *LedgerService) CreateInvoice(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	if strings.TrimSpace(in.InvoiceNumber) == "" {
		return nil, validationErr("invoice number is required")
	}
	if strings.TrimSpace(in.BillTo) == "" {
		return nil, validationErr("bill_to is required")
	}
	if err := validateDates(in.CreatedDate, in.DueDate); err != nil {
		return nil, err
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	balance, err := OpeningBalance(in.TotalAmount, in.AmountReceived)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNumber:   strings.TrimSpace(in.InvoiceNumber),
		CreatedDate:     in.CreatedDate,
		DueDate:         in.DueDate,
		BillTo:          in.BillTo,
		Notes:           in.Notes,
		TotalAmount:     in.TotalAmount,
		AmountReceived:  balance.AmountReceived,
		RemainingAmount: balance.RemainingAmount,
		Status:          balance.Status,
	}
	err = svc.Store.RunInTx(ctx, func(ctx context.Context, tx LedgerStore) error {
		if err := tx.InsertInvoice(ctx, invoice); err != nil {
			return err
		}
		if len(in.Items) > 0 {
			items := itemModels(invoice.ID, in.Items)
			if err := tx.InsertInvoiceItems(ctx, items); err != nil {
				return err
			}
			invoice.Items = items
		}
		if balance.AmountReceived.IsPositive() {
			opening := &models.PaymentHistory{
				InvoiceID:       invoice.ID,
				Amount:          balance.AmountReceived,
				PaymentType:     common.InitialPaymentType,
				PaymentDate:     in.CreatedDate,
				RemainingAmount: balance.RemainingAmount,
				PaymentNotes:    in.Notes,
			}
			if err := tx.InsertPayment(ctx, opening); err != nil {
				return err
			}
			invoice.Payments = []models.PaymentHistory{*opening}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("create invoice", err)
	}
	svc.publish(common.TopicInvoice, common.EventInvoiceCreated, invoice)
	return invoice, nil
}

func (svc *LedgerService) FindInvoices(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error) {
	window, err := ResolveWindow(filter.TimeFilter, svc.now())
	if err != nil {
		return nil, err
	}
	invoices, err := svc.Store.SelectInvoices(ctx, InvoiceQuery{
		Search: strings.TrimSpace(filter.Search),
		Status: filter.Status,
		Window: window,
	})
	if err != nil {
		return nil, storeErr("find invoices", err)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

func (svc *LedgerService) FindInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	invoice, err := svc.Store.SelectInvoice(ctx, id, InvoiceLoad{Items: true, Payments: true})
	if err != nil {
		return nil, storeErr("find invoice", err)
	}
	return invoice, nil
}

func (svc *LedgerService) UpdateInvoice(ctx context.Context, id int64, in InvoiceUpdate) (*models.Invoice, error) {
	if err := validateDates(in.CreatedDate, in.DueDate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.BillTo) == "" {
		return nil, validationErr("bill_to is required")
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	var updated *models.Invoice
	err := svc.Store.RunInTx(ctx, func(ctx context.Context, tx LedgerStore) error {
		invoice, err := tx.SelectInvoice(ctx, id, InvoiceLoad{ForUpdate: true})
		if err != nil {
			return err
		}
		invoice.CreatedDate = in.CreatedDate
		invoice.DueDate = in.DueDate
		invoice.BillTo = in.BillTo
		invoice.Notes = in.Notes
		if in.TotalAmount != nil {
			balance, err := Rebalance(*in.TotalAmount, invoice.AmountReceived)
			if err != nil {
				return err
			}
			invoice.TotalAmount = *in.TotalAmount
			invoice.RemainingAmount = balance.RemainingAmount
			invoice.Status = balance.Status
		}
		if err := tx.UpdateInvoiceHeader(ctx, invoice); err != nil {
			return err
		}
		if len(in.Items) > 0 {
			if err := tx.DeleteInvoiceItems(ctx, id); err != nil {
				return err
			}
			if err := tx.InsertInvoiceItems(ctx, itemModels(id, in.Items)); err != nil {
				return err
			}
		}
		updated, err = tx.SelectInvoice(ctx, id, InvoiceLoad{Items: true, Payments: true})
		return err
	})
	if err != nil {
		return nil, storeErr("update invoice", err)
	}
	svc.publish(common.TopicInvoice, common.EventInvoiceUpdated, updated)
	return updated, nil
}

// AddPayment applies a payment to an invoice. The invoice row is locked for
// the duration of the transaction so concurrent payments are applied one
// after the other against fresh totals.
func (svc *LedgerService) AddPayment(ctx context.Context, invoiceID int64, in PaymentInput) (*PaymentResult, error) {
	if strings.TrimSpace(in.PaymentType) == "" {
		return nil, validationErr("payment type is required")
	}
	if in.PaymentDate.IsZero() {
		return nil, validationErr("payment date is required")
	}
	if !in.Amount.IsPositive() {
		return nil, validationErr("payment amount must be positive")
	}

	result := &PaymentResult{}
	err := svc.Store.RunInTx(ctx, func(ctx context.Context, tx LedgerStore) error {
		invoice, err := tx.SelectInvoice(ctx, invoiceID, InvoiceLoad{ForUpdate: true})
		if err != nil {
			return err
		}
		balance, err := ApplyPayment(invoice.TotalAmount, invoice.AmountReceived, in.Amount)
		if err != nil {
			return err
		}

		payment := &models.PaymentHistory{
			InvoiceID:       invoiceID,
			Amount:          in.Amount,
			PaymentType:     in.PaymentType,
			PaymentDate:     in.PaymentDate,
			RemainingAmount: balance.RemainingAmount,
			PaymentNotes:    in.Notes,
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}

		invoice.AmountReceived = balance.AmountReceived
		invoice.RemainingAmount = balance.RemainingAmount
		invoice.Status = balance.Status
		if err := tx.UpdateInvoiceBalance(ctx, invoice); err != nil {
			return err
		}

		updated, err := tx.SelectInvoice(ctx, invoiceID, InvoiceLoad{Items: true, Payments: true})
		if err != nil {
			return err
		}
		result.Payment = payment
		result.Invoice = updated
		return nil
	})
	if err != nil {
		return nil, storeErr("add payment", err)
	}
	svc.publish(common.TopicInvoice, common.EventInvoicePayment, result)
	return result, nil
}

func (svc *LedgerService) InvoiceItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	items, err := svc.Store.SelectInvoiceItems(ctx, invoiceID)
	if err != nil {
		return nil, storeErr("invoice items", err)
	}
	if items == nil {
		items = []models.InvoiceItem{}
	}
	return items, nil
}

// PaymentHistory lists the payments of an invoice, latest payment first.
func (svc *LedgerService) PaymentHistory(ctx context.Context, invoiceID int64) ([]models.PaymentHistory, error) {
	payments, err := svc.Store.SelectPayments(ctx, invoiceID)
	if err != nil {
		return nil, storeErr("payment history", err)
	}
	if payments == nil {
		payments = []models.PaymentHistory{}
	}
	return payments, nil
}

func (svc *LedgerService) ExportInvoices(ctx context.Context, filter InvoiceFilter, format string) ([]byte, error) {
	invoices, err := svc.FindInvoices(ctx, filter)
	if err != nil {
		return nil, err
	}
	return svc.render(export.InvoiceTable(invoices), "Invoices", format)
}
