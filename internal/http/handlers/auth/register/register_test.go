package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sunny17082/Airbnb/internal/lib/password"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "valid registration",
			requestBody: Request{Name: "Ann", Email: "a@x.com", Password: "pw1"},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "Ann", "a@x.com", "pw1").
					Return(&models.User{ID: "u1", Name: "Ann", Email: "a@x.com", PasswordHash: "$2a$hash"}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - bad email",
			requestBody:    Request{Name: "Ann", Email: "nope", Password: "pw1"},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field email must be a valid email",
		},
		{
			name:        "duplicate email",
			requestBody: Request{Name: "Ann", Email: "a@x.com", Password: "pw1"},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "Ann", "a@x.com", "pw1").
					Return(nil, models.ErrDuplicateEmail).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "email already registered",
		},
		{
			name:        "password over 72 bytes",
			requestBody: Request{Name: "Ann", Email: "a@x.com", Password: strings.Repeat("ж", 72)},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "Ann", "a@x.com", strings.Repeat("ж", 72)).
					Return(nil, fmt.Errorf("services.Register: %w", fmt.Errorf("password.Hash: %w", password.ErrTooLong))).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field password must be at most 72 bytes",
		},
		{
			name:        "storage failure",
			requestBody: Request{Name: "Ann", Email: "a@x.com", Password: "pw1"},
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "Ann", "a@x.com", "pw1").
					Return(nil, errors.New("connection refused")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc, metrics.Nop{})

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "$2a$hash")

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, "Error", resp["status"])
				assert.Contains(t, resp["error"], tt.wantError)
			} else {
				assert.Equal(t, "u1", resp["_id"])
				assert.Equal(t, "a@x.com", resp["email"])
				assert.NotContains(t, resp, "passwordHash")
			}
			svc.AssertExpectations(t)
		})
	}
}
