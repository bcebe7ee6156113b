package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubsubDelivery(t *testing.T) {
	ps := service.NewPubsub()

	invoices := make(chan service.LedgerEvent, 1)
	everything := make(chan service.LedgerEvent, 2)
	invoiceSub := ps.Subscribe(common.TopicInvoice, invoices)
	ps.Subscribe(common.TopicAll, everything)

	assert.Zero(t, ps.Publish(common.TopicInvoice, service.LedgerEvent{Type: common.EventInvoiceCreated}))
	assert.Zero(t, ps.Publish(common.TopicTransaction, service.LedgerEvent{Type: common.EventTransactionCreated}))

	assert.Equal(t, common.EventInvoiceCreated, (<-invoices).Type)
	assert.Equal(t, common.EventInvoiceCreated, (<-everything).Type)
	assert.Equal(t, common.EventTransactionCreated, (<-everything).Type)

	// a full buffer drops instead of blocking the publisher
	ps.Publish(common.TopicInvoice, service.LedgerEvent{})
	assert.Equal(t, 1, ps.Publish(common.TopicInvoice, service.LedgerEvent{}))

	ps.Unsubscribe(invoiceSub, common.TopicInvoice)
	<-invoices
	_, open := <-invoices
	assert.False(t, open)
	// unknown subscriptions are ignored
	ps.Unsubscribe(invoiceSub, common.TopicInvoice)
}

func TestLedgerEventsArePublished(t *testing.T) {
	svc, _ := newTestService(t)
	events, unsubscribe := svc.SubscribeLedgerEvents()
	defer unsubscribe()
	ctx := context.Background()

	invoice, err := svc.CreateInvoice(ctx, invoiceInput("INV-60", "100", "0"))
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, invoice.ID, payment("40"))
	require.NoError(t, err)
	_, err = svc.AddPayment(ctx, invoice.ID, payment("400"))
	require.Error(t, err)

	created := <-events
	assert.Equal(t, common.EventInvoiceCreated, created.Type)
	assert.NotEqual(t, uuid.Nil, created.ID)
	paid := <-events
	assert.Equal(t, common.EventInvoicePayment, paid.Type)

	// the rejected payment published nothing
	select {
	case e := <-events:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEncodeLedgerEvent(t *testing.T) {
	svc, _ := newTestService(t)
	event := service.LedgerEvent{
		ID:         uuid.New(),
		Type:       common.EventTransactionDeleted,
		OccurredAt: fixedNow,
		Data:       map[string]int64{"id": 3},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.EncodeLedgerEvent(context.Background(), &buf, event))

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, event.ID.String(), decoded["id"])
	assert.Equal(t, "transaction.deleted", decoded["type"])
	assert.Equal(t, "2024-03-15T10:00:00Z", decoded["occurred_at"])
	assert.Equal(t, map[string]interface{}{"id": float64(3)}, decoded["data"])
}
