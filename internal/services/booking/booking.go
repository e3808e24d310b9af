// Package booking содержит бизнес-логику бронирований.
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Sunny17082/Airbnb/internal/authz"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// Repository определяет методы для работы с бронированиями в хранилище.
type Repository interface {
	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	// ListBookings возвращает бронирования, ограниченные filter, вместе с объектами.
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.BookingWithPlace, error)
}

// EventPublisher отправляет события о бронированиях во внешние системы.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event models.BookingCreatedEvent) error
}

// Service создает и перечисляет бронирования текущего пользователя.
type Service struct {
	repo      Repository
	publisher EventPublisher
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Create сохраняет бронирование от имени identity. Пользователь бронирования
// всегда равен вызывающему.
func (s *Service) Create(ctx context.Context, identity models.Identity, in models.BookingInput) (*models.Booking, error) {
	const op = "booking.Create"
	if !authz.CanCreateBooking(identity) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	if _, err := uuid.Parse(in.Place); err != nil {
		return nil, fmt.Errorf("%s: %w: place id", op, models.ErrInvalidBooking)
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return nil, fmt.Errorf("%s: %w: dates are required", op, models.ErrInvalidBooking)
	}
	if !in.CheckOut.After(in.CheckIn.Time) {
		return nil, fmt.Errorf("%s: %w: check-out must be after check-in", op, models.ErrInvalidBooking)
	}

	created, err := s.repo.CreateBooking(ctx, models.Booking{
		PlaceID:        in.Place,
		UserID:         identity.ID,
		CheckIn:        in.CheckIn.Time,
		CheckOut:       in.CheckOut.Time,
		NumberOfGuests: in.NumberOfGuests,
		Name:           in.Name,
		Phone:          in.Phone,
		Price:          in.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new booking", slog.String("id", created.ID), slog.String("place", created.PlaceID))

	event := models.BookingCreatedEvent{
		BookingID: created.ID,
		PlaceID:   created.PlaceID,
		UserID:    created.UserID,
		CheckIn:   created.CheckIn,
		CheckOut:  created.CheckOut,
		CreatedAt: created.CreatedAt,
	}
	if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
		s.log.Warn("failed to publish booking event", slog.String("id", created.ID), sl.Err(err))
	}
	return created, nil
}

// List возвращает только бронирования identity.
func (s *Service) List(ctx context.Context, identity models.Identity) ([]*models.BookingWithPlace, error) {
	const op = "booking.List"
	if identity.Anonymous() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	bookings, err := s.repo.ListBookings(ctx, authz.ScopeBookingQuery(identity))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}
