package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Sunny17082/Airbnb/internal/lib/sl"
)

// BookingHandler обрабатывает тело события booking.created.
type BookingHandler func(body []byte) error

// maxInFlight ограничивает число событий о бронированиях в обработке.
const maxInFlight = 10

// ConsumeBookingEvents подписывает уведомления на очередь новых бронирований.
// Событие подтверждается только после успешной обработки, иначе оно
// возвращается брокеру. Подписка живёт, пока не отменён ctx.
func ConsumeBookingEvents(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler BookingHandler) error {
	const op = "rabbitmq.ConsumeBookingEvents"

	deliveries, err := ch.Consume(
		queueName,
		"booking-notifier",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(
		sl.Op(op),
		slog.String("queue", queueName),
		slog.String("routing_key", RoutingKeyBookingCreated),
	)
	go dispatchBookingEvents(ctx, log, deliveries, handler, maxInFlight)
	return nil
}

func dispatchBookingEvents(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, handler BookingHandler, limit int) {
	slots := make(chan struct{}, limit)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Info("booking events channel closed")
				return
			}
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				// Событие получено, но не обработано.
				requeueBookingEvent(log, d)
				return
			}
			go func(d amqp.Delivery) {
				defer func() { <-slots }()
				handleBookingEvent(log, d, handler)
			}(d)
		}
	}
}

func handleBookingEvent(log *slog.Logger, d amqp.Delivery, handler BookingHandler) {
	log = log.With(slog.Uint64("delivery_tag", d.DeliveryTag))
	if err := handler(d.Body); err != nil {
		log.Error("failed to handle booking event", sl.Err(err))
		requeueBookingEvent(log, d)
		return
	}
	if err := d.Ack(false); err != nil {
		log.Error("failed to ack booking event", sl.Err(err))
	}
}

func requeueBookingEvent(log *slog.Logger, d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		log.Error("failed to requeue booking event", sl.Err(err), slog.Uint64("delivery_tag", d.DeliveryTag))
	}
}
