// Package broker publishes events about created transactions to RabbitMQ.
package broker

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/net/context"
)

// Channel is the part of an AMQP channel the publisher uses
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQ holds a connection and a channel to a RabbitMQ server
type RabbitMQ struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	URL        string
}

func NewRabbitMQ(url string) *RabbitMQ {
	return &RabbitMQ{
		URL: url,
	}
}

// Connect dials the server and declares the durable topic exchange
func (r *RabbitMQ) Connect(exchange string) error {
	conn, err := amqp.Dial(r.URL)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	r.Connection, r.Channel = conn, ch
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Connection != nil {
		return r.Connection.Close()
	}
	return nil
}
