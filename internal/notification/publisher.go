package notification

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

const QueueName = "notification_queue"

// AMQPPublisher pushes mail messages onto the notification queue; the mail
// worker drains it and delivers via SMTP.
type AMQPPublisher struct {
	channel *amqp.Channel
	timeout time.Duration
}

func NewAMQPPublisher(channel *amqp.Channel, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{
		channel: channel,
		timeout: timeout,
	}
}

func (p *AMQPPublisher) PublishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		"",        // default exchange
		QueueName, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
