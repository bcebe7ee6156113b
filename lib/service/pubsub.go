package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/irazshakir/ArazitCRM-Production/common"
)

type LedgerEvent struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan LedgerEvent
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan LedgerEvent)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan LedgerEvent) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan LedgerEvent)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// Publish hands msg to every subscriber of topic, and of TopicAll, without
// blocking. It returns how many subscribers had a full buffer and missed
// the event.
func (ps *Pubsub) Publish(topic string, msg LedgerEvent) (dropped int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	topics := []string{topic}
	if topic != common.TopicAll {
		topics = append(topics, common.TopicAll)
	}
	for _, t := range topics {
		for _, ch := range ps.subs[t] {
			select {
			case ch <- msg:
			default:
				dropped++
			}
		}
	}
	return dropped
}
