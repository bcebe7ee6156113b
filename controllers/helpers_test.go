package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/irazshakir/ArazitCRM-Production/lib/service/servicetest"
	"github.com/irazshakir/ArazitCRM-Production/lib/transport"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	echo  *echo.Echo
	svc   *service.LedgerService
	store *servicetest.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	c := &service.Config{
		ApiPrefix:        "/api",
		AllowedOrigins:   []string{"*"},
		DefaultRateLimit: 1000,
		BodyLimit:        "250K",
		ExportCSVMode:    "legacy",
	}
	logger := lecho.New(io.Discard, lecho.WithLevel(log.DEBUG))
	store := servicetest.NewMemoryStore()
	svc := &service.LedgerService{
		Config:      c,
		Store:       store,
		Logger:      logger,
		EventPubSub: service.NewPubsub(),
		Clock:       func() time.Time { return fixedNow },
	}
	e := transport.InitEcho(c, logger)
	transport.RegisterLedgerEndpoints(svc, e, e.Group(c.ApiPrefix))
	return &testServer{echo: e, svc: svc, store: store}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), rec.Body.String())
}

// createInvoice posts an invoice and returns its id.
func (s *testServer) createInvoice(t *testing.T, body string) int64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}{}
	decode(t, rec, &resp)
	return resp.Data.ID
}
