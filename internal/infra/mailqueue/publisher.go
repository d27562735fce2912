package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Publisher отправляет почтовые сообщения в очередь RabbitMQ
type Publisher struct {
	channel *amqp.Channel
	queue   string
	timeout time.Duration
	logger  Logger
}

func NewPublisher(conn *amqp.Connection, queue string, timeout time.Duration, logger Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%w: NewPublisher - open channel: %v", ErrQueueDeclare, err)
	}

	// Durable очередь, чтобы письма переживали рестарт брокера
	_, err = ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("%w: NewPublisher - declare %q: %v", ErrQueueDeclare, queue, err)
	}

	return &Publisher{
		channel: ch,
		queue:   queue,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Publish сериализует сообщение и публикует его с persistent delivery mode
func (p *Publisher) Publish(ctx context.Context, msg MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: Publish - marshal %s: %v", ErrPublish, msg.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: Publish - %s to %s: %v", ErrPublish, msg.Type, msg.To, err)
	}

	p.logger.Info("Publish: queued %s mail for %s", msg.Type, msg.To)

	return nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}
