package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

const serviceName = "crm-ledger"

var supportedSchemes = []string{"postgres://", "postgresql://", "unix://"}

// checkDSN accepts PostgreSQL connection strings only: payments lock the
// invoice row with SELECT ... FOR UPDATE and payment_history is guarded by
// a plpgsql trigger.
func checkDSN(dsn string) error {
	for _, scheme := range supportedSchemes {
		if strings.HasPrefix(dsn, scheme) {
			return nil
		}
	}
	return fmt.Errorf("Invalid database connection string %s, the ledger needs PostgreSQL: only (postgres|postgresql|unix):// is supported", redactDSN(dsn))
}

// redactDSN hides the password so the connection string can be logged.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "<unparsable>"
	}
	return u.Redacted()
}

func Open(config *service.Config) (*bun.DB, error) {
	dsn := config.DatabaseUri
	if err := checkDSN(dsn); err != nil {
		return nil, err
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithApplicationName(serviceName),
	)
	var dbConn *sql.DB
	//if Datadog is configured, send sql traces there
	if config.DatadogAgentUrl != "" {
		sqltrace.Register("postgres", pgdriver.Driver{}, sqltrace.WithServiceName(serviceName))
		dbConn = sqltrace.OpenDB(connector)
	} else {
		dbConn = sql.OpenDB(connector)
	}
	db := bun.NewDB(dbConn, pgdialect.New())
	db.SetMaxOpenConns(config.DatabaseMaxConns)
	db.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	db.AddQueryHook(bundebug.NewQueryHook(
		// disable the hook
		bundebug.WithEnabled(false),
		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	return db, nil
}
