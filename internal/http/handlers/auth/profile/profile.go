// Package profile отдаёт профиль текущего пользователя или null для анонимного запроса.
package profile

import (
	"context"
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
	Profile(ctx context.Context, identity models.Identity) (*models.Profile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль
// @Description Возвращает {_id, name, email} текущего пользователя или null без сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} models.Profile
// @Failure 401 {object} response.ErrorResponse "Недействительный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profile, err := h.service.Profile(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, profile)
}
