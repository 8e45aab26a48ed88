package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	RoutingKeyGradeSaved   = "grade.saved"
	RoutingKeyGradeDeleted = "grade.deleted"
)

type EventPublisher interface {
	PublishGradeSaved(ctx context.Context, event *models.GradeSavedEvent) error
	PublishGradeDeleted(ctx context.Context, event *models.GradeDeletedEvent) error
	Close() error
}

type rabbitMQClient struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

func NewRabbitMQClient(url, exchange, queueName string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		queue.Name, // queue name
		"grade.*",  // routing key
		exchange,   // exchange
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queue.Name).
		Msg("Connected to RabbitMQ")

	return &rabbitMQClient{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (c *rabbitMQClient) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (c *rabbitMQClient) PublishGradeSaved(ctx context.Context, event *models.GradeSavedEvent) error {
	if err := c.publish(ctx, RoutingKeyGradeSaved, event); err != nil {
		return err
	}

	c.logger.Info().
		Int("grade_id", event.GradeID).
		Int("project_id", event.ProjectID).
		Msg("Grade saved event published")
	return nil
}

func (c *rabbitMQClient) PublishGradeDeleted(ctx context.Context, event *models.GradeDeletedEvent) error {
	if err := c.publish(ctx, RoutingKeyGradeDeleted, event); err != nil {
		return err
	}

	c.logger.Info().
		Int("grade_id", event.GradeID).
		Int("project_id", event.ProjectID).
		Msg("Grade deleted event published")
	return nil
}

func (c *rabbitMQClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}

// NopPublisher drops events. Used when RabbitMQ is disabled or unreachable.
type NopPublisher struct{}

func (NopPublisher) PublishGradeSaved(context.Context, *models.GradeSavedEvent) error { return nil }

func (NopPublisher) PublishGradeDeleted(context.Context, *models.GradeDeletedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
