// Package servicetest provides an in-memory service.LedgerStore for tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/uptrace/bun"
)

type tables struct {
	nextID       int64
	transactions map[int64]models.Transaction
	invoices     map[int64]models.Invoice
	items        map[int64]models.InvoiceItem
	payments     map[int64]models.PaymentHistory
}

func newTables() *tables {
	return &tables{
		transactions: map[int64]models.Transaction{},
		invoices:     map[int64]models.Invoice{},
		items:        map[int64]models.InvoiceItem{},
		payments:     map[int64]models.PaymentHistory{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	c.nextID = t.nextID
	for k, v := range t.transactions {
		c.transactions[k] = v
	}
	for k, v := range t.invoices {
		c.invoices[k] = v
	}
	for k, v := range t.items {
		c.items[k] = v
	}
	for k, v := range t.payments {
		c.payments[k] = v
	}
	return c
}

func (t *tables) id() int64 {
	t.nextID++
	return t.nextID
}

type state struct {
	// txMu serializes transactions the way row locks serialize writers
	txMu     sync.Mutex
	mu       sync.Mutex
	data     *tables
	failures map[string]error
}

// MemoryStore keeps the ledger in maps. Transactions run one at a time and
// roll back to a snapshot when fn fails.
type MemoryStore struct {
	st   *state
	inTx bool
}

var _ service.LedgerStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: &state{data: newTables(), failures: map[string]error{}}}
}

// Fail makes every call of the named store method return err until it is
// reset with a nil err.
func (s *MemoryStore) Fail(method string, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err == nil {
		delete(s.st.failures, method)
		return
	}
	s.st.failures[method] = err
}

// lock takes the data lock and reports an injected failure for method.
func (s *MemoryStore) lock(method string) (*tables, error) {
	s.st.mu.Lock()
	if err := s.st.failures[method]; err != nil {
		s.st.mu.Unlock()
		return nil, err
	}
	return s.st.data, nil
}

func (s *MemoryStore) unlock() {
	s.st.mu.Unlock()
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx service.LedgerStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.Lock()
	snapshot := s.st.data.clone()
	s.st.mu.Unlock()

	if err := fn(ctx, &MemoryStore{st: s.st, inTx: true}); err != nil {
		s.st.mu.Lock()
		s.st.data = snapshot
		s.st.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	if _, err := s.lock("Ping"); err != nil {
		return err
	}
	s.unlock()
	return ctx.Err()
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s *MemoryStore) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	data, err := s.lock("InsertTransaction")
	if err != nil {
		return err
	}
	defer s.unlock()
	t.ID = data.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = bun.NullTime{Time: t.CreatedAt}
	data.transactions[t.ID] = *t
	return nil
}

func (s *MemoryStore) SelectTransactions(ctx context.Context, q service.TransactionQuery) ([]models.Transaction, error) {
	data, err := s.lock("SelectTransactions")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	result := []models.Transaction{}
	for _, t := range data.transactions {
		if q.Search != "" && !containsFold(t.ClientName, q.Search) && !containsFold(t.Notes, q.Search) {
			continue
		}
		if q.Type != "" && t.PaymentType != q.Type {
			continue
		}
		if !q.Window.Contains(t.PaymentDate) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].PaymentDate.Equal(result[j].PaymentDate) {
			return result[i].PaymentDate.After(result[j].PaymentDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) SelectTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	data, err := s.lock("SelectTransaction")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	t, ok := data.transactions[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	data, err := s.lock("UpdateTransaction")
	if err != nil {
		return err
	}
	defer s.unlock()
	if _, ok := data.transactions[t.ID]; !ok {
		return service.ErrNotFound
	}
	t.UpdatedAt = bun.NullTime{Time: time.Now()}
	data.transactions[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id int64) error {
	data, err := s.lock("DeleteTransaction")
	if err != nil {
		return err
	}
	defer s.unlock()
	if _, ok := data.transactions[id]; !ok {
		return service.ErrNotFound
	}
	delete(data.transactions, id)
	return nil
}

func (s *MemoryStore) InsertInvoice(ctx context.Context, invoice *models.Invoice) error {
	data, err := s.lock("InsertInvoice")
	if err != nil {
		return err
	}
	defer s.unlock()
	invoice.ID = data.id()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = bun.NullTime{Time: invoice.CreatedAt}
	row := *invoice
	row.Items, row.Payments = nil, nil
	data.invoices[invoice.ID] = row
	return nil
}

func (s *MemoryStore) SelectInvoices(ctx context.Context, q service.InvoiceQuery) ([]models.Invoice, error) {
	data, err := s.lock("SelectInvoices")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	result := []models.Invoice{}
	for _, invoice := range data.invoices {
		if q.Search != "" && !containsFold(invoice.BillTo, q.Search) && !containsFold(invoice.InvoiceNumber, q.Search) {
			continue
		}
		if q.Status != "" && invoice.Status != q.Status {
			continue
		}
		if !q.Window.ContainsDate(invoice.CreatedDate) {
			continue
		}
		invoice.Items = itemsOf(data, invoice.ID)
		if q.WithPayments {
			invoice.Payments = paymentsOf(data, invoice.ID)
		}
		result = append(result, invoice)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedDate.Equal(result[j].CreatedDate) {
			return result[i].CreatedDate.After(result[j].CreatedDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) SelectInvoice(ctx context.Context, id int64, load service.InvoiceLoad) (*models.Invoice, error) {
	data, err := s.lock("SelectInvoice")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	invoice, ok := data.invoices[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	if load.Items {
		invoice.Items = itemsOf(data, id)
	}
	if load.Payments {
		invoice.Payments = paymentsOf(data, id)
	}
	return &invoice, nil
}

func (s *MemoryStore) UpdateInvoiceHeader(ctx context.Context, invoice *models.Invoice) error {
	data, err := s.lock("UpdateInvoiceHeader")
	if err != nil {
		return err
	}
	defer s.unlock()
	row, ok := data.invoices[invoice.ID]
	if !ok {
		return service.ErrNotFound
	}
	invoice.UpdatedAt = bun.NullTime{Time: time.Now()}
	row.CreatedDate = invoice.CreatedDate
	row.DueDate = invoice.DueDate
	row.BillTo = invoice.BillTo
	row.Notes = invoice.Notes
	row.TotalAmount = invoice.TotalAmount
	row.RemainingAmount = invoice.RemainingAmount
	row.Status = invoice.Status
	row.UpdatedAt = invoice.UpdatedAt
	data.invoices[invoice.ID] = row
	return nil
}

func (s *MemoryStore) UpdateInvoiceBalance(ctx context.Context, invoice *models.Invoice) error {
	data, err := s.lock("UpdateInvoiceBalance")
	if err != nil {
		return err
	}
	defer s.unlock()
	row, ok := data.invoices[invoice.ID]
	if !ok {
		return service.ErrNotFound
	}
	invoice.UpdatedAt = bun.NullTime{Time: time.Now()}
	row.AmountReceived = invoice.AmountReceived
	row.RemainingAmount = invoice.RemainingAmount
	row.Status = invoice.Status
	row.UpdatedAt = invoice.UpdatedAt
	data.invoices[invoice.ID] = row
	return nil
}

func (s *MemoryStore) InsertInvoiceItems(ctx context.Context, items []models.InvoiceItem) error {
	data, err := s.lock("InsertInvoiceItems")
	if err != nil {
		return err
	}
	defer s.unlock()
	for i := range items {
		if _, ok := data.invoices[items[i].InvoiceID]; !ok {
			return service.ErrNotFound
		}
		items[i].ID = data.id()
		items[i].CreatedAt = time.Now()
		data.items[items[i].ID] = items[i]
	}
	return nil
}

func (s *MemoryStore) DeleteInvoiceItems(ctx context.Context, invoiceID int64) error {
	data, err := s.lock("DeleteInvoiceItems")
	if err != nil {
		return err
	}
	defer s.unlock()
	for id, item := range data.items {
		if item.InvoiceID == invoiceID {
			delete(data.items, id)
		}
	}
	return nil
}

func (s *MemoryStore) SelectInvoiceItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	data, err := s.lock("SelectInvoiceItems")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	return itemsOf(data, invoiceID), nil
}

func (s *MemoryStore) InsertPayment(ctx context.Context, payment *models.PaymentHistory) error {
	data, err := s.lock("InsertPayment")
	if err != nil {
		return err
	}
	defer s.unlock()
	if _, ok := data.invoices[payment.InvoiceID]; !ok {
		return service.ErrNotFound
	}
	payment.ID = data.id()
	payment.CreatedAt = time.Now()
	data.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) SelectPayments(ctx context.Context, invoiceID int64) ([]models.PaymentHistory, error) {
	data, err := s.lock("SelectPayments")
	if err != nil {
		return nil, err
	}
	defer s.unlock()
	return paymentsOf(data, invoiceID), nil
}

// PutInvoice stores invoice as is, bypassing every ledger rule. Tests use
// it to plant inconsistent rows.
func (s *MemoryStore) PutInvoice(invoice models.Invoice, payments ...models.PaymentHistory) int64 {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	data := s.st.data
	if invoice.ID == 0 {
		invoice.ID = data.id()
	}
	invoice.Items, invoice.Payments = nil, nil
	data.invoices[invoice.ID] = invoice
	for _, p := range payments {
		p.ID = data.id()
		p.InvoiceID = invoice.ID
		data.payments[p.ID] = p
	}
	return invoice.ID
}

// Counts reports the number of stored rows per table.
func (s *MemoryStore) Counts() (transactions, invoices, items, payments int) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	data := s.st.data
	return len(data.transactions), len(data.invoices), len(data.items), len(data.payments)
}

func itemsOf(data *tables, invoiceID int64) []models.InvoiceItem {
	items := []models.InvoiceItem{}
	for _, item := range data.items {
		if item.InvoiceID == invoiceID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func paymentsOf(data *tables, invoiceID int64) []models.PaymentHistory {
	payments := []models.PaymentHistory{}
	for _, p := range data.payments {
		if p.InvoiceID == invoiceID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].PaymentDate.Equal(payments[j].PaymentDate) {
			return payments[i].PaymentDate.After(payments[j].PaymentDate)
		}
		return payments[i].ID > payments[j].ID
	})
	return payments
}
