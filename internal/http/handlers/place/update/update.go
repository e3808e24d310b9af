// Package update реализует изменение объекта размещения его владельцем.
package update

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
	"github.com/Sunny17082/Airbnb/internal/models"
)

// Request — идентификатор объекта и новые значения его полей.
type Request struct {
	ID string `json:"id" validate:"required"`
	models.PlaceInput
}

type Service interface {
	Update(ctx context.Context, identity models.Identity, id string, in models.PlaceInput) (*models.Place, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить объект
// @Description Перезаписывает поля объекта. Доступно только владельцу, остальные получают 403.
// @Tags Places
// @Accept  json
// @Produce  json
// @Param request body Request true "id и поля объекта"
// @Success 200 {object} models.Place
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Не владелец"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /places [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.place.update"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	identity := middlewarectx.IdentityFrom(r.Context())
	place, err := h.service.Update(r.Context(), identity, req.ID, req.PlaceInput)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrUnauthenticated):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthenticated"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Warn("update by non-owner rejected", slog.String("place", req.ID), slog.String("user", identity.ID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	case errors.Is(err, models.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("place not found"))
		return
	case errors.Is(err, models.ErrInvalidPlace):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid place"))
		return
	default:
		log.Error("failed to update place", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update place"))
		return
	}

	log.Info("place updated", slog.String("id", place.ID))
	render.JSON(w, r, place)
}
