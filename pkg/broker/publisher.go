package broker

import (
	"encoding/json"
	"time"

	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

const publishTimeout = 5 * time.Second

// TransactionCreated is the message published for a created transaction
type TransactionCreated struct {
	EventID    string    `json:"event_id"`
	TypeAlias  string    `json:"type_alias"`
	OccurredAt time.Time `json:"occurred_at"`

	TxnID      string    `json:"txn_id"`
	ProjectID  int64     `json:"project_id"`
	RewardID   int64     `json:"reward_id"`
	InvestorID int64     `json:"investor_id"`
	ReceiverID int64     `json:"receiver_id"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	Created    time.Time `json:"created"`
}

// Publisher publishes transaction events
//
// It is an observer of the bank transfer recorder.
type Publisher struct {
	ch         Channel
	exchange   string
	routingKey string
	log        log15.Logger
}

func NewPublisher(ch Channel, exchange, routingKey string, log log15.Logger) *Publisher {
	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		log:        log.New(log15.Ctx{"pkg": "github.com/fritzpay/banktransferd/pkg/broker"}),
	}
}

// Publish sends the event for a created transaction
func (p *Publisher) Publish(ctx context.Context, e banktransfer.TransactionEvent) error {
	t := e.Transaction
	msg := TransactionCreated{
		EventID:    uuid.NewString(),
		TypeAlias:  e.TypeAlias,
		OccurredAt: e.Time,
		TxnID:      t.TxnID,
		ProjectID:  t.ProjectID,
		RewardID:   t.RewardID,
		InvestorID: t.InvestorID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount.String(),
		Currency:   t.Currency,
		Status:     t.Status.String(),
		Created:    t.Created,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.EventID,
			Timestamp:    msg.OccurredAt,
			Type:         e.TypeAlias,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

// TransactionCreated publishes the event. Errors are logged.
func (p *Publisher) TransactionCreated(e banktransfer.TransactionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err := p.Publish(ctx, e)
	if err != nil {
		p.log.Error("error publishing transaction event", log15.Ctx{
			"method": "TransactionCreated",
			"txnID":  e.Transaction.TxnID,
			"err":    err,
		})
	}
}

var _ banktransfer.Observer = (*Publisher)(nil)
