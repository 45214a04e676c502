package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Flowlab/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeVersionCreated        MessageType = "version.created"
	MessageTypeVersionUpdated        MessageType = "version.updated"
	MessageTypeVersionDeleted        MessageType = "version.deleted"
	MessageTypeVersionCurrentChanged MessageType = "version.current_changed"
)

// Publisher публикует события жизненного цикла версий в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// VersionEventPayload — payload событий версий.
type VersionEventPayload struct {
	FlowID    uuid.UUID `json:"flow_id"`
	VersionID int64     `json:"version_id"`
	Name      string    `json:"name,omitempty"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishVersionEvent публикует событие жизненного цикла версии.
// Потребители: аудит, инвалидация кеша движка.
func (p *Publisher) PublishVersionEvent(ctx context.Context, msgType MessageType, payload VersionEventPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	// version.created → flowlab.flows/version.created
	routingKey := RoutingKey(msgType)
	return p.Publish(ctx, ExchangeFlows, routingKey, msg)
}

// PublishVersionCreated публикует событие о создании версии.
func (p *Publisher) PublishVersionCreated(ctx context.Context, v *domain.FlowVersion) error {
	return p.PublishVersionEvent(ctx, MessageTypeVersionCreated, VersionEventPayload{
		FlowID:    v.FlowID,
		VersionID: v.ID,
		Name:      v.Name,
		UserID:    v.UserID,
	})
}

// PublishVersionUpdated публикует событие об изменении версии.
func (p *Publisher) PublishVersionUpdated(ctx context.Context, v *domain.FlowVersion) error {
	return p.PublishVersionEvent(ctx, MessageTypeVersionUpdated, VersionEventPayload{
		FlowID:    v.FlowID,
		VersionID: v.ID,
		Name:      v.Name,
		UserID:    v.UserID,
	})
}

// PublishVersionDeleted публикует событие об удалении версии.
func (p *Publisher) PublishVersionDeleted(ctx context.Context, flowID uuid.UUID, versionID int64) error {
	return p.PublishVersionEvent(ctx, MessageTypeVersionDeleted, VersionEventPayload{
		FlowID:    flowID,
		VersionID: versionID,
	})
}

// PublishCurrentChanged публикует событие о переключении текущей версии.
func (p *Publisher) PublishCurrentChanged(ctx context.Context, flowID uuid.UUID, versionID int64) error {
	return p.PublishVersionEvent(ctx, MessageTypeVersionCurrentChanged, VersionEventPayload{
		FlowID:    flowID,
		VersionID: versionID,
	})
}
