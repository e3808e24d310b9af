package models

import (
	"fmt"
	"strconv"
	"time"
)

// Booking — бронирование объекта. User всегда равен идентичности создателя.
type Booking struct {
	ID             string    `json:"_id"`
	PlaceID        string    `json:"place"`
	UserID         string    `json:"user"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	NumberOfGuests int       `json:"numberOfGuests"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Price          int       `json:"price"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BookingWithPlace — бронирование с подставленным документом объекта.
// Поле Place перекрывает идентификатор place из Booking при сериализации.
type BookingWithPlace struct {
	Booking
	Place *Place `json:"place"`
}

// BookingInput — данные бронирования от клиента.
// Поле user из тела запроса намеренно не принимается.
type BookingInput struct {
	Place          string    `json:"place" validate:"required,uuid"`
	CheckIn        Day       `json:"checkIn"`
	CheckOut       Day       `json:"checkOut"`
	NumberOfGuests int       `json:"numberOfGuests" validate:"required,gt=0"`
	Name           string    `json:"name" validate:"required,max=200"`
	Phone          string    `json:"phone" validate:"required,max=50"`
	Price          int       `json:"price" validate:"gte=0"`
}

// Day — дата заезда или выезда. Клиент присылает её как "2006-01-02",
// полная метка RFC 3339 тоже принимается.
type Day struct {
	time.Time
}

// DayLayout — формат даты без времени.
const DayLayout = "2006-01-02"

func (d *Day) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("day: %w", err)
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		*d = Day{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("day: %w", err)
	}
	*d = Day{t}
	return nil
}

// BookingFilter ограничивает выборку бронирований.
// Пустой UserID не допускается: список без владельца не строится.
type BookingFilter struct {
	UserID string
}

// BookingCreatedEvent публикуется в брокер после создания бронирования.
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	PlaceID   string    `json:"place_id"`
	UserID    string    `json:"user_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	CreatedAt time.Time `json:"created_at"`
}
