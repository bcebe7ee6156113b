package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceBody = `{
	"invoiceNumber": "INV-1001",
	"created_date": "2024-03-01",
	"due_date": "2024-03-31",
	"bill_to": "Acme Corp",
	"notes": "retainer",
	"total_amount": 1200,
	"amount_received": 500,
	"remaining_amount": 1,
	"items": [
		{"service_name": "Consulting", "description": "10h", "amount": 1000},
		{"service_name": "Hosting", "amount": 200}
	]
}`

type invoiceJSON struct {
	ID              int64   `json:"id"`
	InvoiceNumber   string  `json:"invoice_number"`
	BillTo          string  `json:"bill_to"`
	TotalAmount     float64 `json:"total_amount"`
	AmountReceived  float64 `json:"amount_received"`
	RemainingAmount float64 `json:"remaining_amount"`
	Status          string  `json:"status"`
	Items           []struct {
		ServiceName string  `json:"service_name"`
		Amount      float64 `json:"amount"`
	} `json:"invoice_items"`
	Payments []struct {
		Amount          float64 `json:"amount"`
		RemainingAmount float64 `json:"remaining_amount"`
	} `json:"payment_history"`
}

func TestCreateAndGetInvoice(t *testing.T) {
	s := newTestServer(t)
	id := s.createInvoice(t, invoiceBody)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/invoices/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	invoice := invoiceJSON{}
	decode(t, rec, &invoice)
	assert.Equal(t, "INV-1001", invoice.InvoiceNumber)
	// the remaining amount is derived, the client value is ignored
	assert.Equal(t, float64(700), invoice.RemainingAmount)
	assert.Equal(t, "Partially Paid", invoice.Status)
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "Consulting", invoice.Items[0].ServiceName)
	require.Len(t, invoice.Payments, 1)
	assert.Equal(t, float64(500), invoice.Payments[0].Amount)
	assert.Equal(t, float64(700), invoice.Payments[0].RemainingAmount)
}

func TestCreateInvoiceBadRequest(t *testing.T) {
	s := newTestServer(t)

	overpaid := strings.Replace(invoiceBody, `"amount_received": 500`, `"amount_received": 5000`, 1)
	rec := s.do(t, http.MethodPost, "/api/invoices", overpaid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noNumber := strings.Replace(invoiceBody, `"invoiceNumber": "INV-1001",`, ``, 1)
	rec = s.do(t, http.MethodPost, "/api/invoices", noNumber)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noDueDate := strings.Replace(invoiceBody, `"due_date": "2024-03-31",`, ``, 1)
	rec = s.do(t, http.MethodPost, "/api/invoices", noDueDate)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Required fields are missing"}`, rec.Body.String())

	_, invoices, _, _ := s.store.Counts()
	assert.Zero(t, invoices)
}

func TestGetInvoiceNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/invoices/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Invoice not found"}`, rec.Body.String())
}

func TestListInvoices(t *testing.T) {
	s := newTestServer(t)
	s.createInvoice(t, invoiceBody)
	s.createInvoice(t, strings.NewReplacer(
		`"INV-1001"`, `"INV-1002"`,
		`"2024-03-01"`, `"2024-02-10"`,
		`"Acme Corp"`, `"Globex"`,
		`"amount_received": 500`, `"amount_received": 0`,
	).Replace(invoiceBody))

	rec := s.do(t, http.MethodGet, "/api/invoices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	invoices := []invoiceJSON{}
	decode(t, rec, &invoices)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-1001", invoices[0].InvoiceNumber)
	assert.Len(t, invoices[0].Items, 2)

	rec = s.do(t, http.MethodGet, "/api/invoices?status=Pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &invoices)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Globex", invoices[0].BillTo)

	rec = s.do(t, http.MethodGet, "/api/invoices?status=Partially%20Paid&search=acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &invoices)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1001", invoices[0].InvoiceNumber)

	rec = s.do(t, http.MethodGet, "/api/invoices?timeRange=prevMonth", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &invoices)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1002", invoices[0].InvoiceNumber)

	rec = s.do(t, http.MethodGet, "/api/invoices?status=Overdue", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateInvoice(t *testing.T) {
	s := newTestServer(t)
	id := s.createInvoice(t, invoiceBody)
	path := fmt.Sprintf("/api/invoices/%d", id)

	rec := s.do(t, http.MethodPut, path, `{
		"created_date": "2024-03-01",
		"due_date": "2024-04-15",
		"billTo": "Acme Holdings",
		"total_amount": 1500,
		"items": [{"service_name": "Consulting", "amount": 1500}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := struct {
		Message string      `json:"message"`
		Data    invoiceJSON `json:"data"`
	}{}
	decode(t, rec, &resp)
	assert.Equal(t, "Invoice updated successfully", resp.Message)
	assert.Equal(t, "Acme Holdings", resp.Data.BillTo)
	assert.Equal(t, float64(1000), resp.Data.RemainingAmount)
	require.Len(t, resp.Data.Items, 1)

	rec = s.do(t, http.MethodPut, path, `{"created_date": "2024-03-01", "due_date": "2024-04-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Required fields are missing"}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, path, `{"created_date": "2024-03-01", "due_date": "2024-04-15", "billTo": "Acme", "total_amount": 100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/invoices/999", `{"created_date": "2024-03-01", "due_date": "2024-04-15", "billTo": "Acme"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoiceItems(t *testing.T) {
	s := newTestServer(t)
	id := s.createInvoice(t, invoiceBody)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/invoices/%d/items", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := []map[string]interface{}{}
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Hosting", items[1]["service_name"])

	rec = s.do(t, http.MethodGet, "/api/invoices/999/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExportInvoices(t *testing.T) {
	s := newTestServer(t)
	s.createInvoice(t, invoiceBody)

	rec := s.do(t, http.MethodGet, "/api/invoices/export?status=Partially%20Paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=invoices_2024-03-15.csv", rec.Header().Get("Content-Disposition"))
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Invoice Number,Created Date,Due Date,Bill To,Total Amount,Amount Received,Remaining Amount,Status,Notes,Created At,Updated At", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INV-1001,2024-03-01,2024-03-31,Acme Corp,1200,500,700,Partially Paid,retainer,"))
}
