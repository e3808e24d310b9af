// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/password"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/lib/validate"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// Request — входные данные регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	metrics  metrics.Recorder
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		metrics:  rec,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и возвращает его документ без хэша пароля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные для регистрации"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или email уже занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
		h.metrics.RecordAuth("register", false)
		render.Status(r, http.StatusUnprocessableEntity)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuth("register", false)
		if errors.Is(err, models.ErrDuplicateEmail) {
			log.Info("email already registered")
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		// max=72 в теге считает символы, bcrypt ограничен байтами.
		if errors.Is(err, password.ErrTooLong) {
			log.Info("password exceeds bcrypt limit")
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("field password must be at most 72 bytes"))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	h.metrics.RecordAuth("register", true)
	log.Info("user registered", slog.String("id", user.ID))
	render.JSON(w, r, user)
}
