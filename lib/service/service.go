package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/irazshakir/ArazitCRM-Production/lib/export"
	"github.com/ziflex/lecho/v3"
)

type LedgerService struct {
	Config      *Config
	Store       LedgerStore
	Logger      *lecho.Logger
	EventPubSub *Pubsub
	// Clock supplies the reference time for named windows. Defaults to time.Now.
	Clock func() time.Time
}

func (svc *LedgerService) now() time.Time {
	if svc.Clock != nil {
		return svc.Clock()
	}
	return time.Now()
}

// Now is the service's reference time, used for export file names.
func (svc *LedgerService) Now() time.Time {
	return svc.now()
}

func (svc *LedgerService) Ping(ctx context.Context) error {
	return svc.Store.Ping(ctx)
}

func (svc *LedgerService) csvMode() export.Mode {
	if svc.Config == nil {
		return export.ModeLegacy
	}
	mode, err := export.ParseMode(svc.Config.ExportCSVMode)
	if err != nil {
		svc.Logger.Warnf("falling back to legacy csv export: %v", err)
		return export.ModeLegacy
	}
	return mode
}

func (svc *LedgerService) publish(topic, eventType string, data interface{}) {
	if svc.EventPubSub == nil {
		return
	}
	event := LedgerEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if dropped := svc.EventPubSub.Publish(topic, event); dropped > 0 {
		svc.Logger.Warnf("ledger event %s (%s) dropped for %d subscriber(s)", event.ID, eventType, dropped)
	}
}
