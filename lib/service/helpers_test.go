package service_test

import (
	"io"
	"testing"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/irazshakir/ArazitCRM-Production/lib/service/servicetest"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/ziflex/lecho/v3"
)

// fixedNow is the reference time of every test service.
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*service.LedgerService, *servicetest.MemoryStore) {
	t.Helper()
	store := servicetest.NewMemoryStore()
	svc := &service.LedgerService{
		Config:      &service.Config{ExportCSVMode: "legacy"},
		Store:       store,
		Logger:      lecho.New(io.Discard, lecho.WithLevel(log.DEBUG)),
		EventPubSub: service.NewPubsub(),
		Clock:       func() time.Time { return fixedNow },
	}
	return svc, store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
