package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeFlows Exchange = "flowlab.flows"
)

// Queues — имена очередей.
const (
	QueueVersionEvents Queue = "flows.version-events"
)

// Routing keys.
const (
	RoutingKeyVersion RoutingKey = "version"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeFlows), // name
			"topic",               // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeFlows, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueVersionEvents), // name
			true,                       // durable
			false,                      // delete when unused
			false,                      // exclusive
			false,                      // no-wait
			nil,                        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueVersionEvents, err)
		}

		// version.* — все события версий уходят в одну очередь
		err = ch.QueueBind(
			string(QueueVersionEvents),
			string(RoutingKeyVersion)+".*",
			string(ExchangeFlows),
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", QueueVersionEvents, err)
		}

		return nil
	})
}
