// Package create реализует бронирование объекта текущим пользователем.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Sunny17082/Airbnb/internal/http/middlewarectx"
	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/lib/validate"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type Service interface {
	Create(ctx context.Context, identity models.Identity, in models.BookingInput) (*models.Booking, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	rec      metrics.Recorder
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		rec:      rec,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Забронировать объект
// @Description Создаёт бронирование. Пользователь берётся из сессии, поле user в теле игнорируется.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Param request body models.BookingInput true "Данные бронирования"
// @Success 200 {object} models.Booking
// @Failure 400 {object} response.ErrorResponse "Некорректное бронирование"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.BookingInput
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	booking, err := h.service.Create(r.Context(), middlewarectx.IdentityFrom(r.Context()), req)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrUnauthenticated):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthenticated"))
		return
	case errors.Is(err, models.ErrInvalidBooking):
		log.Info("booking rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid booking"))
		return
	default:
		log.Error("failed to create booking", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create booking"))
		return
	}

	h.rec.RecordBookingCreated()
	render.JSON(w, r, booking)
}
