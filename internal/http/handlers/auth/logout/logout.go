// Package logout реализует выход: cookie сессии перезаписывается пустым значением.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/lib/sl"
)

// CookieClearer стирает cookie сессии.
type CookieClearer interface {
	ClearCookie(w http.ResponseWriter)
}

type Handler struct {
	log     *slog.Logger
	cookies CookieClearer
}

func New(log *slog.Logger, cookies CookieClearer) *Handler {
	return &Handler{log: log, cookies: cookies}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Очищает cookie token. Всегда возвращает true.
// @Tags Auth
// @Produce  json
// @Success 200 {boolean} boolean
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.cookies.ClearCookie(w)
	h.log.Debug("session cookie cleared",
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, true)
}
