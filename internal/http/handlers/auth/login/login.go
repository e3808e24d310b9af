// Package login реализует HTTP-обработчик входа пользователя.
//
// При успешной проверке пароля токен сессии записывается в cookie,
// а в теле возвращается документ пользователя.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/lib/validate"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// CookieWriter записывает токен сессии в ответ.
type CookieWriter interface {
	SetCookie(w http.ResponseWriter, token string)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookies  CookieWriter
	metrics  metrics.Recorder
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookies CookieWriter, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookies:  cookies,
		metrics:  rec,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Проверяет email и пароль, устанавливает cookie token и возвращает документ пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Неверный пароль или ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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
		render.Status(r, http.StatusUnprocessableEntity)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		h.metrics.RecordAuth("login", false)
		log.Info("login for unknown email")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, models.ErrInvalidCredentials):
		h.metrics.RecordAuth("login", false)
		log.Info("wrong password", slog.String("user", req.Email))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	default:
		h.metrics.RecordAuth("login", false)
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	h.cookies.SetCookie(w, token)
	h.metrics.RecordAuth("login", true)
	log.Info("login success", slog.String("id", user.ID))
	render.JSON(w, r, user)
}
