// Package list отдаёт бронирования текущего пользователя с данными объектов.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/http/middlewarectx"
	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type Service interface {
	List(ctx context.Context, identity models.Identity) ([]*models.BookingWithPlace, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои бронирования
// @Tags Bookings
// @Produce  json
// @Success 200 {array} models.BookingWithPlace
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.list"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bookings, err := h.service.List(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if errors.Is(err, models.ErrUnauthenticated) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthenticated"))
		return
	}
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}
	render.JSON(w, r, bookings)
}
