package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/db"
	"github.com/irazshakir/ArazitCRM-Production/db/migrations"
	"github.com/irazshakir/ArazitCRM-Production/lib/logging"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/irazshakir/ArazitCRM-Production/lib/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const dateLayout = "2006-01-02"

// The suites run against a disposable postgres database and are skipped
// when TEST_DATABASE_URI is not set.
func testDatabaseUri() (string, bool) {
	return os.LookupEnv("TEST_DATABASE_URI")
}

func LedgerTestServiceInit(dbUri string) (svc *service.LedgerService, dbConn *bun.DB, err error) {
	c := &service.Config{
		DatabaseUri:             dbUri,
		DatabaseMaxConns:        10,
		DatabaseMaxIdleConns:    2,
		DatabaseConnMaxLifetime: 60,
		DatabaseTimeout:         10,
		ApiPrefix:               "/api",
		AllowedOrigins:          []string{"*"},
		DefaultRateLimit:        1000,
		BodyLimit:               "250K",
		RabbitMQUri:             os.Getenv("RABBITMQ_URI"),
		RabbitMQLedgerExchange:  "crm_ledger_test",
		ExportCSVMode:           "legacy",
	}

	dbConn, err = db.Open(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	if err = migrator.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	if _, err = migrator.Migrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	svc = &service.LedgerService{
		Config:      c,
		Store:       db.NewLedgerStore(dbConn),
		Logger:      logging.Logger(c.LogFilePath),
		EventPubSub: service.NewPubsub(),
		Clock:       time.Now,
	}
	return svc, dbConn, nil
}

// clearTables empties the ledger. TRUNCATE does not fire the row triggers
// guarding payment_history.
func clearTables(dbConn *bun.DB) error {
	_, err := dbConn.Exec("TRUNCATE accounts, invoices, invoice_items, payment_history RESTART IDENTITY")
	return err
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (suite *TestSuite) initEcho(svc *service.LedgerService) {
	suite.echo = transport.InitEcho(svc.Config, svc.Logger)
	transport.RegisterLedgerEndpoints(svc, suite.echo, suite.echo.Group(svc.Config.ApiPrefix))
}

func (suite *TestSuite) doJSON(method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(v), rec.Body.String())
}

func (suite *TestSuite) createTransaction(paymentType string, amount string, client string) int64 {
	rec := suite.doJSON(http.MethodPost, "/api/accounts", map[string]interface{}{
		"payment_date": time.Now().Format(time.RFC3339),
		"payment_type": paymentType,
		"payment_mode": "Cash",
		"amount":       json.Number(amount),
		"client_name":  client,
	})
	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	resp := struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}{}
	suite.decode(rec, &resp)
	return resp.Data.ID
}

func (suite *TestSuite) createInvoice(number string, total, received int) int64 {
	rec := suite.doJSON(http.MethodPost, "/api/invoices", map[string]interface{}{
		"invoiceNumber":   number,
		"created_date":    time.Now().Format(dateLayout),
		"due_date":        time.Now().AddDate(0, 1, 0).Format(dateLayout),
		"bill_to":         "Integration Client",
		"total_amount":    total,
		"amount_received": received,
		"items": []map[string]interface{}{
			{"service_name": "Consulting", "amount": total},
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	resp := struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}{}
	suite.decode(rec, &resp)
	return resp.Data.ID
}
