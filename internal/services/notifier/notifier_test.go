package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sunny17082/Airbnb/internal/models"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type counter struct{ n int }

func (c *counter) RecordBookingEventConsumed() { c.n++ }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func eventBody(t *testing.T, event models.BookingCreatedEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestNotifier_HandleBookingCreated(t *testing.T) {
	event := models.BookingCreatedEvent{
		BookingID: "b1",
		PlaceID:   "p1",
		UserID:    "u1",
		CheckIn:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name         string
		body         []byte
		setupMock    func(m *UserRepoMock)
		wantErr      bool
		wantRecorded int
	}{
		{
			name: "confirmed",
			body: eventBody(t, event),
			setupMock: func(m *UserRepoMock) {
				m.On("GetUser", mock.Anything, "u1").Return(&models.User{ID: "u1", Email: "a@x.com"}, nil).Once()
			},
			wantRecorded: 1,
		},
		{
			name:      "malformed body is dropped",
			body:      []byte(`{"booking_id":`),
			setupMock: func(_ *UserRepoMock) {},
		},
		{
			name:      "event without user is dropped",
			body:      eventBody(t, models.BookingCreatedEvent{BookingID: "b1"}),
			setupMock: func(_ *UserRepoMock) {},
		},
		{
			name: "deleted guest is dropped",
			body: eventBody(t, event),
			setupMock: func(m *UserRepoMock) {
				m.On("GetUser", mock.Anything, "u1").Return(nil, models.ErrUserNotFound).Once()
			},
		},
		{
			name: "storage failure is retried",
			body: eventBody(t, event),
			setupMock: func(m *UserRepoMock) {
				m.On("GetUser", mock.Anything, "u1").Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMock(repo)
			rec := &counter{}

			err := New(repo, rec, newNoopLogger(), time.Second).HandleBookingCreated(tt.body)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRecorded, rec.n)
			repo.AssertExpectations(t)
		})
	}
}
