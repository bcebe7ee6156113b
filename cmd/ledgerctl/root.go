package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/db"
	"github.com/irazshakir/ArazitCRM-Production/lib"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Maintenance tasks for the CRM ledger",
	Long: `ledgerctl runs maintenance jobs against the ledger database.

It reads the same environment (or .env file) as the API server, most
importantly DATABASE_URI.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load before reading the configuration")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// ledgerEnv is what every subcommand needs: the service on top of an open
// database connection and the logger.
type ledgerEnv struct {
	svc    *service.LedgerService
	log    zerolog.Logger
	db     *bun.DB
	closer io.Closer
}

func (env *ledgerEnv) Close() {
	env.db.Close()
	env.closer.Close()
}

func setupLedger(cmd *cobra.Command, component string) (*ledgerEnv, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	logFile, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// a missing env file is fine, the environment may be set already
	_ = godotenv.Load(envFile)

	c := &service.Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}
	if logFile == "" {
		logFile = c.LogFilePath
	}

	logger, closer, err := lib.Logger(logFile, verbose)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger = logger.With().Str("component", component).Logger()

	location, err := c.Location()
	if err != nil {
		closer.Close()
		return nil, err
	}

	dbConn, err := db.Open(c)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("initializing db connection: %w", err)
	}

	svc := &service.LedgerService{
		Config: c,
		Store:  db.NewLedgerStore(dbConn),
		Logger: lecho.From(logger),
		Clock: func() time.Time {
			return time.Now().In(location)
		},
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.DBTimeout())
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		dbConn.Close()
		closer.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}

	return &ledgerEnv{svc: svc, log: logger, db: dbConn, closer: closer}, nil
}
