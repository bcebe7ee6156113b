package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/irazshakir/ArazitCRM-Production/db/models"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func mockStore(t *testing.T, monitorPings bool) (*LedgerStore, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() {
		bunDB.Close()
	})
	return NewLedgerStore(bunDB), mock
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"acme":    "%acme%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`c:\temp`: `%c:\\temp%`,
	}
	for search, expected := range tests {
		assert.Equal(t, expected, likePattern(search), search)
	}
}

func TestPing(t *testing.T) {
	store, mock := mockStore(t, true)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	assert.NoError(t, store.Ping(context.Background()))
	assert.EqualError(t, store.Ping(context.Background()), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransactionNotFound(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteTransaction(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NoError(t, store.DeleteTransaction(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransactionNotFound(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTransaction(context.Background(), &models.Transaction{ID: 7})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectTransactionNotFound(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "accounts" AS "account"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.SelectTransaction(context.Background(), 7)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectTransactionsSearch(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectQuery(`account\.client_name ILIKE '%acme%'.*account\.notes ILIKE '%acme%'.*ORDER BY account\.payment_date DESC, account\.id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_type", "client_name"}).
			AddRow(2, "Received", "Acme Corp").
			AddRow(1, "Payments", "acme supplies"))

	transactions, err := store.SelectTransactions(context.Background(), service.TransactionQuery{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(2), transactions[0].ID)
	assert.Equal(t, "acme supplies", transactions[1].ClientName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBack(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts"`)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := store.RunInTx(context.Background(), func(ctx context.Context, tx service.LedgerStore) error {
		return tx.DeleteTransaction(ctx, 1)
	})
	assert.EqualError(t, err, "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxIsReentrant(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTx(context.Background(), func(ctx context.Context, tx service.LedgerStore) error {
		return tx.RunInTx(ctx, func(ctx context.Context, inner service.LedgerStore) error {
			return inner.DeleteTransaction(ctx, 1)
		})
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectInvoiceForUpdate(t *testing.T) {
	store, mock := mockStore(t, false)
	mock.ExpectQuery(`FROM "invoices" AS "invoice" WHERE \(invoice\.id = 3\).*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount", "amount_received", "status"}).
			AddRow(3, "1000", "400", "Partially Paid"))

	invoice, err := store.SelectInvoice(context.Background(), 3, service.InvoiceLoad{ForUpdate: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), invoice.ID)
	assert.Equal(t, "400", invoice.AmountReceived.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
