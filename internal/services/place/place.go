// Package place содержит бизнес-логику объектов размещения и кэширование их документов.
package place

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Sunny17082/Airbnb/internal/authz"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// Repository определяет методы для работы с объектами в хранилище.
type Repository interface {
	CreatePlace(ctx context.Context, place models.Place) (*models.Place, error)
	GetPlace(ctx context.Context, id string) (*models.Place, error)
	// UpdatePlace применяет изменения, только если ownerID совпадает с владельцем.
	UpdatePlace(ctx context.Context, ownerID string, place models.Place) (*models.Place, error)
	ListPlacesByOwner(ctx context.Context, ownerID string) ([]*models.Place, error)
	ListPlaces(ctx context.Context) ([]*models.Place, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции над объектами с проверкой владельца.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. ttl — время жизни документа в кеше.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(id string) string {
	return "place:" + id
}

// Create создает объект, владельцем которого становится identity.
func (s *Service) Create(ctx context.Context, identity models.Identity, in models.PlaceInput) (*models.Place, error) {
	const op = "place.Create"
	if !authz.CanCreatePlace(identity) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}

	place := models.Place{Owner: identity.ID}
	in.Apply(&place)

	created, err := s.repo.CreatePlace(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new place", slog.String("id", created.ID), slog.String("owner", created.Owner))

	s.store(ctx, created)
	return created, nil
}

// Update изменяет объект id. Не владелец получает models.ErrForbidden,
// и хранилище при этом не изменяется.
func (s *Service) Update(ctx context.Context, identity models.Identity, id string, in models.PlaceInput) (*models.Place, error) {
	const op = "place.Update"
	if identity.Anonymous() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPlaceNotFound)
	}

	current, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !authz.CanMutatePlace(identity, current) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	in.Apply(current)
	updated, err := s.repo.UpdatePlace(ctx, identity.ID, *current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated place", slog.String("id", updated.ID))

	s.store(ctx, updated)
	return updated, nil
}

// Get возвращает объект по ID, используя кеш или репозиторий.
// Ошибки кеша не прерывают чтение.
func (s *Service) Get(ctx context.Context, id string) (*models.Place, error) {
	const op = "place.Get"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPlaceNotFound)
	}

	var cached models.Place
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	place, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.store(ctx, place)
	return place, nil
}

// ListByOwner возвращает объекты, принадлежащие identity.
func (s *Service) ListByOwner(ctx context.Context, identity models.Identity) ([]*models.Place, error) {
	const op = "place.ListByOwner"
	if identity.Anonymous() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	places, err := s.repo.ListPlacesByOwner(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return places, nil
}

// ListAll возвращает весь каталог объектов.
func (s *Service) ListAll(ctx context.Context) ([]*models.Place, error) {
	const op = "place.ListAll"
	places, err := s.repo.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return places, nil
}

func (s *Service) store(ctx context.Context, place *models.Place) {
	key := cacheKey(place.ID)
	if err := s.cache.Set(ctx, key, place, s.ttl); err != nil {
		s.log.Warn("failed to cache place", slog.String("key", key), sl.Err(err))
		// В кеше не должна остаться прежняя версия документа.
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to invalidate place", slog.String("key", key), sl.Err(err))
		}
	}
}
