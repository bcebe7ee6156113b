package service

import (
	"fmt"
	"time"
)

type Config struct {
	DatabaseUri             string   `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int      `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int      `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int      `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DatabaseTimeout         int      `envconfig:"DATABASE_TIMEOUT" default:"60"`             // 60 seconds
	SentryDSN               string   `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64  `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl         string   `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath             string   `envconfig:"LOG_FILE_PATH"`
	AdminToken              string   `envconfig:"ADMIN_TOKEN"`
	Host                    string   `envconfig:"HOST" default:"localhost:5000"`
	Port                    int      `envconfig:"PORT" default:"5000"`
	ApiPrefix               string   `envconfig:"API_PREFIX" default:"/api"`
	AllowedOrigins          []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	DefaultRateLimit        int      `envconfig:"DEFAULT_RATE_LIMIT" default:"20"`
	BodyLimit               string   `envconfig:"BODY_LIMIT" default:"250K"`
	EnablePrometheus        bool     `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int      `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl              string   `envconfig:"WEBHOOK_URL"`
	RabbitMQUri             string   `envconfig:"RABBITMQ_URI"`
	RabbitMQLedgerExchange  string   `envconfig:"RABBITMQ_LEDGER_EXCHANGE" default:"crm_ledger"`
	Timezone                string   `envconfig:"TIMEZONE" default:"UTC"`
	ExportCSVMode           string   `envconfig:"EXPORT_CSV_MODE" default:"legacy"`
}

// Location resolves TIMEZONE. Month and day windows are computed in it.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) DBTimeout() time.Duration {
	return time.Duration(c.DatabaseTimeout) * time.Second
}
