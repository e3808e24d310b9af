package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/Sunny17082/Airbnb/internal/models"
)

const placeColumns = `id, owner_id, title, address, photos, description, perks,
			  extra_info, check_in, check_out, max_guests, price, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (*models.Place, error) {
	var (
		p      models.Place
		photos pq.StringArray
		perks  pq.StringArray
	)
	err := row.Scan(&p.ID, &p.Owner, &p.Title, &p.Address, &photos, &p.Description, &perks,
		&p.ExtraInfo, &p.CheckIn, &p.CheckOut, &p.MaxGuests, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	setArrays(&p, photos, perks)
	return &p, nil
}

func setArrays(p *models.Place, photos, perks pq.StringArray) {
	p.Photos = []string(photos)
	if p.Photos == nil {
		p.Photos = []string{}
	}
	p.Perks = make([]models.Perk, 0, len(perks))
	for _, perk := range perks {
		p.Perks = append(p.Perks, models.Perk(perk))
	}
}

func perkStrings(perks []models.Perk) []string {
	out := make([]string, 0, len(perks))
	for _, p := range perks {
		out = append(out, string(p))
	}
	return out
}

func photoStrings(photos []string) []string {
	if photos == nil {
		return []string{}
	}
	return photos
}

// CreatePlace сохраняет объект размещения. Владелец берётся из place.Owner.
func (s *Storage) CreatePlace(ctx context.Context, place models.Place) (*models.Place, error) {
	const op = "storage.CreatePlace"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO places (owner_id, title, address, photos, description, perks,
			  extra_info, check_in, check_out, max_guests, price)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + placeColumns
	created, err := scanPlace(s.DB.QueryRowContext(ctx, query,
		place.Owner, place.Title, place.Address, pq.Array(photoStrings(place.Photos)), place.Description,
		pq.Array(perkStrings(place.Perks)), place.ExtraInfo, place.CheckIn, place.CheckOut,
		place.MaxGuests, place.Price))
	if err != nil {
		switch pgCode(err) {
		case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation, pgerrcode.CheckViolation:
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPlace)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetPlace возвращает объект размещения по ID.
func (s *Storage) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	const op = "storage.GetPlace"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	place, err := scanPlace(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPlaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return place, nil
}

// UpdatePlace перезаписывает изменяемые поля объекта. Условие по owner_id
// входит в сам UPDATE: если владелец не совпал или объекта нет,
// возвращается models.ErrPlaceNotFound и строка не меняется.
func (s *Storage) UpdatePlace(ctx context.Context, ownerID string, place models.Place) (*models.Place, error) {
	const op = "storage.UpdatePlace"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE places
			  SET title = $3, address = $4, photos = $5, description = $6, perks = $7,
			      extra_info = $8, check_in = $9, check_out = $10, max_guests = $11, price = $12,
			      updated_at = NOW()
			  WHERE id = $1 AND owner_id = $2
			  RETURNING ` + placeColumns
	updated, err := scanPlace(s.DB.QueryRowContext(ctx, query,
		place.ID, ownerID, place.Title, place.Address, pq.Array(photoStrings(place.Photos)), place.Description,
		pq.Array(perkStrings(place.Perks)), place.ExtraInfo, place.CheckIn, place.CheckOut,
		place.MaxGuests, place.Price))
	if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPlaceNotFound)
	}
	if err != nil {
		if pgCode(err) == pgerrcode.CheckViolation {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPlace)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// ListPlacesByOwner возвращает объекты владельца в порядке создания.
func (s *Storage) ListPlacesByOwner(ctx context.Context, ownerID string) ([]*models.Place, error) {
	const op = "storage.ListPlacesByOwner"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + placeColumns + ` FROM places WHERE owner_id = $1 ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return []*models.Place{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectPlaces(rows, op)
}

// ListPlaces возвращает все объекты. Каталог публичный.
func (s *Storage) ListPlaces(ctx context.Context) ([]*models.Place, error) {
	const op = "storage.ListPlaces"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + placeColumns + ` FROM places ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectPlaces(rows, op)
}

func collectPlaces(rows *sql.Rows, op string) ([]*models.Place, error) {
	defer rows.Close()

	places := make([]*models.Place, 0)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return places, nil
}
