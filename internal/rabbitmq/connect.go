// Package rabbitmq публикует события бронирований в RabbitMQ и
// читает их обратно для фоновых обработчиков.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Ключи маршрутизации и очереди событий.
const (
	RoutingKeyBookingCreated = "booking.created"
	QueueBookingCreated      = "bookings.created"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetBookingQueues возвращает очереди, которые объявляются при старте.
func GetBookingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueBookingCreated, RoutingKey: RoutingKeyBookingCreated},
	}
}

// Connect подключается к брокеру, повторяя попытки retries раз.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	if retries < 1 {
		retries = 1
	}
	for i := range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		if i < retries-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// bookingChannel — методы канала, нужные для объявления топологии.
type bookingChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Close() error
}

// SetupChannel открывает канал, объявляет direct-exchange и привязывает к нему очереди.
// При ошибке объявления канал закрывается.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := declareBookingTopology(ch, exchange, queues); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

func declareBookingTopology(ch bookingChannel, exchange string, queues []QueueConfig) (err error) {
	defer func() {
		if err != nil {
			_ = ch.Close()
		}
	}()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
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
			return fmt.Errorf("failed to declare queue %s: %w", q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			exchange,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}
