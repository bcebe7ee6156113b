package rabbitmq

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses the buffers ledger events are encoded into.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON  = "application/json"
	routingKeyPrefix = "ledger."
)

type (
	SubscribeToLedgerEventsFunc = func() (<-chan service.LedgerEvent, func())
	EncodeLedgerEventFunc       = func(ctx context.Context, w io.Writer, event service.LedgerEvent) error
)

type Client interface {
	StartPublishLedgerEvents(context.Context, SubscribeToLedgerEventsFunc, EncodeLedgerEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	ledgerExchange string
}

type ClientOption = func(client *DefaultClient)

func WithLedgerExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.ledgerExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
		ledgerExchange: "crm_ledger",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

// StartPublishLedgerEvents declares the ledger exchange and publishes every
// event it receives until ctx is done.
func (client *DefaultClient) StartPublishLedgerEvents(ctx context.Context, subscribeFunc SubscribeToLedgerEventsFunc, payloadFunc EncodeLedgerEventFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.ledgerExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq ledger publisher")

	events, unsubscribe := subscribeFunc()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := client.publishToLedgerExchange(ctx, event, payloadFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishToLedgerExchange(ctx context.Context, event service.LedgerEvent, payloadFunc EncodeLedgerEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := payloadFunc(ctx, payload, event); err != nil {
		return err
	}

	err := client.amqpClient.PublishWithContext(ctx,
		client.ledgerExchange,
		routingKeyPrefix+event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			MessageId:   event.ID.String(),
			Timestamp:   event.OccurredAt,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published ledger event %s to rabbitmq with key %s", event.ID, routingKeyPrefix+event.Type)
	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
