package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/Sunny17082/Airbnb/internal/models"
)

// ErrUnscopedQuery возвращается при попытке выбрать бронирования без пользователя.
var ErrUnscopedQuery = errors.New("booking query without user scope")

// CreateBooking сохраняет бронирование. Несуществующий объект, неверный
// идентификатор и нарушение ограничений дат дают models.ErrInvalidBooking.
func (s *Storage) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	const op = "storage.CreateBooking"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO bookings (place_id, user_id, check_in, check_out, number_of_guests, name, phone, price)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at`
	err := s.DB.QueryRowContext(ctx, query,
		booking.PlaceID, booking.UserID, booking.CheckIn, booking.CheckOut,
		booking.NumberOfGuests, booking.Name, booking.Phone, booking.Price).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation, pgerrcode.CheckViolation:
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidBooking)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &booking, nil
}

// ListBookings возвращает бронирования пользователя из filter вместе
// с документами объектов. Фильтр без UserID отклоняется.
func (s *Storage) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.BookingWithPlace, error) {
	const op = "storage.ListBookings"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if filter.UserID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnscopedQuery)
	}

	query := `SELECT b.id, b.place_id, b.user_id, b.check_in, b.check_out, b.number_of_guests,
			  b.name, b.phone, b.price, b.created_at,
			  p.id, p.owner_id, p.title, p.address, p.photos, p.description, p.perks,
			  p.extra_info, p.check_in, p.check_out, p.max_guests, p.price, p.created_at, p.updated_at
			  FROM bookings b
			  JOIN places p ON p.id = b.place_id
			  WHERE b.user_id = $1
			  ORDER BY b.created_at, b.id`
	rows, err := s.DB.QueryContext(ctx, query, filter.UserID)
	if err != nil {
		if isInvalidID(err) {
			return []*models.BookingWithPlace{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bookings := make([]*models.BookingWithPlace, 0)
	for rows.Next() {
		var (
			b      models.BookingWithPlace
			p      models.Place
			photos pq.StringArray
			perks  pq.StringArray
		)
		if err := rows.Scan(&b.ID, &b.PlaceID, &b.UserID, &b.CheckIn, &b.CheckOut, &b.NumberOfGuests,
			&b.Name, &b.Phone, &b.Price, &b.CreatedAt,
			&p.ID, &p.Owner, &p.Title, &p.Address, &photos, &p.Description, &perks,
			&p.ExtraInfo, &p.CheckIn, &p.CheckOut, &p.MaxGuests, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		setArrays(&p, photos, perks)
		b.Place = &p
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}
