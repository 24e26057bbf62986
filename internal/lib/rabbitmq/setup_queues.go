package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange is the direct exchange all publication events go through.
const Exchange = "notifications"

// ArticlePublishedKey routes freshly published articles to the
// notification sender.
const ArticlePublishedKey = "article.published"

// ArticlePublishedQueue is the queue the notification sender consumes.
const ArticlePublishedQueue = "article_published_queue"

// QueueConfig binds a queue to the exchange under a routing key.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues lists the queues the services need declared.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ArticlePublishedQueue, RoutingKey: ArticlePublishedKey},
	}
}

// SetupChannel opens a channel, declares the notifications exchange and
// binds the given queues to it.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
