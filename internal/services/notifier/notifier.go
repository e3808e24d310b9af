// Package notifier обрабатывает события booking.created, прочитанные из брокера.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type Recorder interface {
	RecordBookingEventConsumed()
}

type Notifier struct {
	users   UserRepository
	rec     Recorder
	log     *slog.Logger
	timeout time.Duration
}

// New создаёт Notifier. timeout ограничивает обращение к хранилищу на одно сообщение.
func New(users UserRepository, rec Recorder, log *slog.Logger, timeout time.Duration) *Notifier {
	return &Notifier{
		users:   users,
		rec:     rec,
		log:     log,
		timeout: timeout,
	}
}

// HandleBookingCreated подтверждает бронирование гостю. Битые сообщения
// и события об удалённых пользователях отбрасываются (nil), ошибка
// хранилища возвращает сообщение в очередь.
func (n *Notifier) HandleBookingCreated(body []byte) error {
	const op = "notifier.HandleBookingCreated"
	log := n.log.With(sl.Op(op))

	var event models.BookingCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		return nil
	}
	if event.BookingID == "" || event.UserID == "" {
		log.Warn("dropping incomplete event", slog.String("booking", event.BookingID))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	user, err := n.users.GetUser(ctx, event.UserID)
	if errors.Is(err, models.ErrNotFound) {
		log.Warn("guest no longer exists", slog.String("booking", event.BookingID), slog.String("user", event.UserID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n.rec.RecordBookingEventConsumed()
	log.Info("booking confirmed",
		slog.String("booking", event.BookingID),
		slog.String("place", event.PlaceID),
		slog.String("guest", user.Email),
		slog.Time("check_in", event.CheckIn),
		slog.Time("check_out", event.CheckOut),
	)
	return nil
}
