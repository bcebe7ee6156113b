package integration_tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/irazshakir/ArazitCRM-Production/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
)

type RabbitMQTestSuite struct {
	TestSuite
	service  *service.LedgerService
	db       *bun.DB
	client   rabbitmq.Client
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    amqp.Queue
	cancel   context.CancelFunc
	finished chan struct{}
}

func (suite *RabbitMQTestSuite) SetupSuite() {
	dbUri, ok := testDatabaseUri()
	if !ok {
		suite.T().Skip("TEST_DATABASE_URI is not set")
	}
	svc, dbConn, err := LedgerTestServiceInit(dbUri)
	if err != nil {
		suite.T().Fatalf("Error initializing test service: %v", err)
	}
	if svc.Config.RabbitMQUri == "" {
		suite.T().Skip("RABBITMQ_URI is not set")
	}
	suite.service = svc
	suite.db = dbConn
	assert.NoError(suite.T(), clearTables(dbConn))

	exchange := svc.Config.RabbitMQLedgerExchange
	suite.conn, err = amqp.Dial(svc.Config.RabbitMQUri)
	assert.NoError(suite.T(), err)
	suite.channel, err = suite.conn.Channel()
	assert.NoError(suite.T(), err)
	err = suite.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	assert.NoError(suite.T(), err)
	suite.queue, err = suite.channel.QueueDeclare("", false, true, true, false, nil)
	assert.NoError(suite.T(), err)
	err = suite.channel.QueueBind(suite.queue.Name, "ledger.transaction.*", exchange, false, nil)
	assert.NoError(suite.T(), err)

	amqpClient, err := rabbitmq.DialAMQP(svc.Config.RabbitMQUri, rabbitmq.WithAmqpLogger(svc.Logger))
	assert.NoError(suite.T(), err)
	suite.client, err = rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(svc.Logger),
		rabbitmq.WithLedgerExchange(exchange),
	)
	assert.NoError(suite.T(), err)

	ctx, cancel := context.WithCancel(context.Background())
	suite.cancel = cancel
	suite.finished = make(chan struct{})
	go func() {
		defer close(suite.finished)
		err := suite.client.StartPublishLedgerEvents(ctx, svc.SubscribeLedgerEvents, svc.EncodeLedgerEvent)
		assert.ErrorIs(suite.T(), err, context.Canceled)
	}()
}

func (suite *RabbitMQTestSuite) TearDownSuite() {
	if suite.cancel != nil {
		suite.cancel()
		<-suite.finished
		suite.client.Close()
		suite.channel.Close()
		suite.conn.Close()
	}
	if suite.db != nil {
		clearTables(suite.db)
		suite.db.Close()
	}
}

func (suite *RabbitMQTestSuite) TestTransactionEventIsPublished() {
	msgs, err := suite.channel.Consume(suite.queue.Name, "", true, false, false, false, nil)
	assert.NoError(suite.T(), err)

	// the publisher subscribes asynchronously, keep producing until it is listening
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(10 * time.Second)
	ctx := context.Background()
	for {
		select {
		case <-ticker.C:
			_, err := suite.service.CreateTransaction(ctx, service.TransactionInput{
				PaymentDate: time.Now(),
				PaymentType: common.PaymentTypeReceived,
				PaymentMode: common.PaymentModeOnline,
				Amount:      decimal.NewFromInt(250),
				ClientName:  "Initech",
			})
			assert.NoError(suite.T(), err)
		case msg := <-msgs:
			assert.Equal(suite.T(), "ledger."+common.EventTransactionCreated, msg.RoutingKey)
			assert.Equal(suite.T(), "application/json", msg.ContentType)
			event := struct {
				ID   string `json:"id"`
				Type string `json:"type"`
				Data struct {
					ClientName string `json:"client_name"`
				} `json:"data"`
			}{}
			assert.NoError(suite.T(), json.Unmarshal(msg.Body, &event))
			assert.Equal(suite.T(), msg.MessageId, event.ID)
			assert.Equal(suite.T(), common.EventTransactionCreated, event.Type)
			assert.Equal(suite.T(), "Initech", event.Data.ClientName)
			return
		case <-timeout:
			suite.T().Fatal("no ledger event received from rabbitmq")
		}
	}
}

func TestRabbitMQSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQTestSuite))
}
