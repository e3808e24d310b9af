package owned

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sunny17082/Airbnb/internal/http/middlewarectx"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListByOwner(ctx context.Context, identity models.Identity) ([]*models.Place, error) {
	args := m.Called(ctx, identity)
	places, _ := args.Get(0).([]*models.Place)
	return places, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(t *testing.T, svc *ServiceMock, identity models.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/user-places", nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), identity))
	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, req)
	return rr
}

func TestOwnedHandler_ServeHTTP(t *testing.T) {
	owner := models.Identity{ID: "owner-1", Email: "o@x.com"}

	t.Run("lists caller places", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListByOwner", mock.Anything, owner).Return([]*models.Place{
			{ID: "p1", Owner: owner.ID},
			{ID: "p2", Owner: owner.ID},
		}, nil).Once()

		rr := serve(t, svc, owner)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []models.Place
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 2)
		for _, p := range got {
			assert.Equal(t, owner.ID, p.Owner)
		}
		svc.AssertExpectations(t)
	})

	t.Run("empty list", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListByOwner", mock.Anything, owner).Return([]*models.Place{}, nil).Once()

		rr := serve(t, svc, owner)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListByOwner", mock.Anything, owner).Return(nil, errors.New("db down")).Once()

		rr := serve(t, svc, owner)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
