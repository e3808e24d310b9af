// Package read отдаёт объект по идентификатору из пути. Отсутствующий объект — null.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type Service interface {
	Get(ctx context.Context, id string) (*models.Place, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Объект по id
// @Tags Places
// @Produce  json
// @Param id path string true "ID объекта"
// @Success 200 {object} models.Place "Объект или null"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /places/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.place.read"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	place, err := h.service.Get(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		log.Debug("place not found", slog.String("id", id))
		render.JSON(w, r, nil)
		return
	}
	if err != nil {
		log.Error("failed to read place", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read place"))
		return
	}
	render.JSON(w, r, place)
}
