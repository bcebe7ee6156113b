package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/irazshakir/ArazitCRM-Production/common"
)

const eventBufferSize = 100

// SubscribeLedgerEvents returns a buffered channel receiving every ledger
// event and the func that ends the subscription.
func (svc *LedgerService) SubscribeLedgerEvents() (<-chan LedgerEvent, func()) {
	events := make(chan LedgerEvent, eventBufferSize)
	subId := svc.EventPubSub.Subscribe(common.TopicAll, events)
	return events, func() {
		svc.EventPubSub.Unsubscribe(subId, common.TopicAll)
	}
}

func (svc *LedgerService) EncodeLedgerEvent(ctx context.Context, w io.Writer, event LedgerEvent) error {
	return json.NewEncoder(w).Encode(event)
}
