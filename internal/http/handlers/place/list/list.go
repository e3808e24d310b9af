// Package list отдаёт публичный каталог объектов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/models"
)

type Service interface {
	ListAll(ctx context.Context) ([]*models.Place, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все объекты
// @Tags Places
// @Produce  json
// @Success 200 {array} models.Place
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /places [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.place.list"

	places, err := h.service.ListAll(r.Context())
	if err != nil {
		h.log.Error("failed to list places",
			sl.Op(op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list places"))
		return
	}
	render.JSON(w, r, places)
}
