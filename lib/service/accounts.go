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

type TransactionInput struct {
	PaymentDate time.Time
	PaymentType string
	PaymentMode string
	Amount      decimal.Decimal
	ClientName  string
	Notes       string
}

func (in TransactionInput) validate() error {
	if in.PaymentDate.IsZero() {
		return validationErr("payment_date is required")
	}
	switch in.PaymentType {
	case common.PaymentTypeReceived, common.PaymentTypeExpenses, common.PaymentTypePayments, common.PaymentTypeRefunds:
	default:
		return validationErr("unknown payment_type %q", in.PaymentType)
	}
	switch in.PaymentMode {
	case common.PaymentModeOnline, common.PaymentModeCash, common.PaymentModeCheque:
	default:
		return validationErr("unknown payment_mode %q", in.PaymentMode)
	}
	if !in.Amount.IsPositive() {
		return validationErr("amount must be positive")
	}
	return nil
}

func (in TransactionInput) applyTo(t *models.Transaction) {
	t.PaymentDate = in.PaymentDate
	t.PaymentType = in.PaymentType
	t.PaymentMode = in.PaymentMode
	t.Amount = in.Amount
	t.PaymentCreditDebit = CreditDebitFor(in.PaymentType)
	t.ClientName = strings.TrimSpace(in.ClientName)
	t.Notes = in.Notes
}

type TransactionFilter struct {
	Search string
	Type   string
	TimeFilter
}

type TransactionStats struct {
	Received decimal.Decimal `json:"received"`
	Expenses decimal.Decimal `json:"expenses"`
	Pending  decimal.Decimal `json:"pending"`
	Total    decimal.Decimal `json:"total"`
}

// SummarizeTransactions totals the transactions per type. Total is the sum
// of credits minus the sum of debits.
func SummarizeTransactions(transactions []models.Transaction) TransactionStats {
	stats := TransactionStats{}
	for _, t := range transactions {
		switch t.PaymentType {
		case common.PaymentTypeReceived:
			stats.Received = stats.Received.Add(t.Amount)
		case common.PaymentTypeExpenses:
			stats.Expenses = stats.Expenses.Add(t.Amount)
		case common.PaymentTypePayments:
			stats.Pending = stats.Pending.Add(t.Amount)
		}
		if t.PaymentCreditDebit == common.CreditDebitCredit {
			stats.Total = stats.Total.Add(t.Amount)
		} else {
			stats.Total = stats.Total.Sub(t.Amount)
		}
	}
	return stats
}

func (svc *LedgerService) CreateTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &models.Transaction{}
	in.applyTo(t)
	if err := svc.Store.InsertTransaction(ctx, t); err != nil {
		return nil, storeErr("create transaction", err)
	}
	svc.publish(common.TopicTransaction, common.EventTransactionCreated, t)
	return t, nil
}

func (svc *LedgerService) FindTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	window, err := ResolveWindow(filter.TimeFilter, svc.now())
	if err != nil {
		return nil, err
	}
	transactions, err := svc.Store.SelectTransactions(ctx, TransactionQuery{
		Search: strings.TrimSpace(filter.Search),
		Type:   filter.Type,
		Window: window,
	})
	if err != nil {
		return nil, storeErr("find transactions", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// TransactionStats aggregates over the named time range only. Search, type
// and an explicit startDate/endDate pair do not narrow the stats.
func (svc *LedgerService) TransactionStats(ctx context.Context, timeRange string) (*TransactionStats, error) {
	transactions, err := svc.FindTransactions(ctx, TransactionFilter{TimeFilter: TimeFilter{TimeRange: timeRange}})
	if err != nil {
		return nil, err
	}
	stats := SummarizeTransactions(transactions)
	return &stats, nil
}

func (svc *LedgerService) UpdateTransaction(ctx context.Context, id int64, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *models.Transaction
	err := svc.Store.RunInTx(ctx, func(ctx context.Context, tx LedgerStore) error {
		t, err := tx.SelectTransaction(ctx, id)
		if err != nil {
			return err
		}
		in.applyTo(t)
		if err := tx.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, storeErr("update transaction", err)
	}
	svc.publish(common.TopicTransaction, common.EventTransactionUpdated, updated)
	return updated, nil
}

func (svc *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := svc.Store.DeleteTransaction(ctx, id); err != nil {
		return storeErr("delete transaction", err)
	}
	svc.publish(common.TopicTransaction, common.EventTransactionDeleted, map[string]int64{"id": id})
	return nil
}

// ExportTransactions renders the filtered transactions as csv or xlsx.
func (svc *LedgerService) ExportTransactions(ctx context.Context, filter TransactionFilter, format string) ([]byte, error) {
	transactions, err := svc.FindTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return svc.render(export.TransactionTable(transactions), "Transactions", format)
}

func (svc *LedgerService) render(t export.Table, sheet string, format string) ([]byte, error) {
	switch format {
	case "", common.ExportFormatCSV:
		return export.CSV(t, svc.csvMode())
	case common.ExportFormatXLSX:
		buf, err := export.XLSX(t, sheet)
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, validationErr("unknown export format %q", format)
	}
}
