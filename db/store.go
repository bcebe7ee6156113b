package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

// LedgerStore implements service.LedgerStore on top of bun.
type LedgerStore struct {
	db   *bun.DB
	idb  bun.IDB
	inTx bool
}

var _ service.LedgerStore = (*LedgerStore)(nil)

func NewLedgerStore(db *bun.DB) *LedgerStore {
	return &LedgerStore{db: db, idb: db}
}

func (s *LedgerStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.LedgerStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &LedgerStore{db: s.db, idb: tx, inTx: true})
	})
}

func (s *LedgerStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// likePattern escapes LIKE wildcards so the search term matches literally.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return service.ErrNotFound
	}
	return err
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *LedgerStore) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := s.idb.NewInsert().Model(t).Returning("*").Exec(ctx)
	return err
}

func (s *LedgerStore) SelectTransactions(ctx context.Context, q service.TransactionQuery) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	query := s.idb.NewSelect().Model(&transactions)
	if q.Search != "" {
		pattern := likePattern(q.Search)
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("account.client_name ILIKE ?", pattern).WhereOr("account.notes ILIKE ?", pattern)
		})
	}
	if q.Type != "" {
		query = query.Where("account.payment_type = ?", q.Type)
	}
	if w := q.Window; w != nil {
		if !w.From.IsZero() {
			query = query.Where("account.payment_date >= ?", w.From)
		}
		if !w.To.IsZero() {
			query = query.Where("account.payment_date < ?", w.To)
		}
	}
	err := query.OrderExpr("account.payment_date DESC, account.id DESC").Scan(ctx)
	return transactions, err
}

func (s *LedgerStore) SelectTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := s.idb.NewSelect().Model(t).Where("account.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *LedgerStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.idb.NewUpdate().Model(t).
		Column("payment_date", "payment_type", "payment_mode", "amount", "payment_credit_debit", "client_name", "notes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (s *LedgerStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.idb.NewDelete().Model((*models.Transaction)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (s *LedgerStore) InsertInvoice(ctx context.Context, invoice *models.Invoice) error {
	_, err := s.idb.NewInsert().Model(invoice).Returning("*").Exec(ctx)
	return err
}

func (s *LedgerStore) SelectInvoices(ctx context.Context, q service.InvoiceQuery) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	query := s.idb.NewSelect().Model(&invoices).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("item.id ASC")
		})
	if q.WithPayments {
		query = query.Relation("Payments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("payment.payment_date DESC, payment.id DESC")
		})
	}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("invoice.bill_to ILIKE ?", pattern).WhereOr("invoice.invoice_number ILIKE ?", pattern)
		})
	}
	if q.Status != "" {
		query = query.Where("invoice.status = ?", q.Status)
	}
	if q.Window != nil {
		from, to := q.Window.Dates()
		if !from.IsZero() {
			query = query.Where("invoice.created_date >= ?::date", from.Format(dateLayout))
		}
		if !to.IsZero() {
			query = query.Where("invoice.created_date < ?::date", to.Format(dateLayout))
		}
	}
	err := query.OrderExpr("invoice.created_date DESC, invoice.id DESC").Scan(ctx)
	return invoices, err
}

func (s *LedgerStore) SelectInvoice(ctx context.Context, id int64, load service.InvoiceLoad) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := s.idb.NewSelect().Model(invoice).Where("invoice.id = ?", id)
	if load.ForUpdate {
		query = query.For("UPDATE")
	}
	if err := query.Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	if load.Items {
		items, err := s.SelectInvoiceItems(ctx, id)
		if err != nil {
			return nil, err
		}
		invoice.Items = items
	}
	if load.Payments {
		payments, err := s.SelectPayments(ctx, id)
		if err != nil {
			return nil, err
		}
		invoice.Payments = payments
	}
	return invoice, nil
}

func (s *LedgerStore) UpdateInvoiceHeader(ctx context.Context, invoice *models.Invoice) error {
	res, err := s.idb.NewUpdate().Model(invoice).
		Column("created_date", "due_date", "bill_to", "notes", "total_amount", "remaining_amount", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (s *LedgerStore) UpdateInvoiceBalance(ctx context.Context, invoice *models.Invoice) error {
	res, err := s.idb.NewUpdate().Model(invoice).
		Column("amount_received", "remaining_amount", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (s *LedgerStore) InsertInvoiceItems(ctx context.Context, items []models.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := s.idb.NewInsert().Model(&items).Returning("*").Exec(ctx)
	return err
}

func (s *LedgerStore) DeleteInvoiceItems(ctx context.Context, invoiceID int64) error {
	_, err := s.idb.NewDelete().Model((*models.InvoiceItem)(nil)).Where("invoice_id = ?", invoiceID).Exec(ctx)
	return err
}

func (s *LedgerStore) SelectInvoiceItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	items := []models.InvoiceItem{}
	err := s.idb.NewSelect().Model(&items).
		Where("item.invoice_id = ?", invoiceID).
		OrderExpr("item.id ASC").
		Scan(ctx)
	return items, err
}

func (s *LedgerStore) InsertPayment(ctx context.Context, payment *models.PaymentHistory) error {
	_, err := s.idb.NewInsert().Model(payment).Returning("*").Exec(ctx)
	return err
}

func (s *LedgerStore) SelectPayments(ctx context.Context, invoiceID int64) ([]models.PaymentHistory, error) {
	payments := []models.PaymentHistory{}
	err := s.idb.NewSelect().Model(&payments).
		Where("payment.invoice_id = ?", invoiceID).
		OrderExpr("payment.payment_date DESC, payment.id DESC").
		Scan(ctx)
	return payments, err
}
