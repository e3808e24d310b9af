package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sunny17082/Airbnb/internal/migrations"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// testDataFactory создаёт тестовые записи через сам Storage.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(storage *Storage) *testDataFactory {
	return &testDataFactory{storage: storage}
}

func (f *testDataFactory) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	return u
}

func (f *testDataFactory) place(t *testing.T, ownerID, title string) *models.Place {
	t.Helper()
	p, err := f.storage.CreatePlace(context.Background(), models.Place{
		Owner:     ownerID,
		Title:     title,
		Address:   "1 Main St",
		Photos:    []string{"a.jpg", "b.jpg"},
		Perks:     []models.Perk{models.PerkWifi, models.PerkPets},
		CheckIn:   "14",
		CheckOut:  "11",
		MaxGuests: 2,
		Price:     100,
	})
	require.NoError(t, err)
	return p
}

func (f *testDataFactory) booking(t *testing.T, placeID, userID string) *models.Booking {
	t.Helper()
	checkIn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := f.storage.CreateBooking(context.Background(), models.Booking{
		PlaceID:        placeID,
		UserID:         userID,
		CheckIn:        checkIn,
		CheckOut:       checkIn.AddDate(0, 0, 2),
		NumberOfGuests: 2,
		Name:           "Guest",
		Phone:          "+100",
		Price:          200,
	})
	require.NoError(t, err)
	return b
}
