// Package bylink сохраняет фотографию, скачанную по ссылке.
package bylink

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
	"github.com/Sunny17082/Airbnb/internal/services/upload"
)

type Request struct {
	Link string `json:"link" validate:"required,url"`
}

type Uploader interface {
	SaveFromLink(ctx context.Context, link string) (string, error)
}

type Handler struct {
	log      *slog.Logger
	uploader Uploader
	validate *validator.Validate
}

func New(log *slog.Logger, uploader Uploader) *Handler {
	return &Handler{
		log:      log,
		uploader: uploader,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Загрузить фото по ссылке
// @Description Скачивает изображение и возвращает имя файла в /uploads/.
// @Tags Uploads
// @Accept  json
// @Produce  json
// @Param request body Request true "Ссылка на изображение"
// @Success 200 {string} string "Имя файла"
// @Failure 400 {object} response.ErrorResponse "Некорректная ссылка"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 502 {object} response.ErrorResponse "Не удалось скачать"
// @Router /upload-by-link [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.bylink"

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
		render.Status(r, http.StatusBadRequest)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	name, err := h.uploader.SaveFromLink(r.Context(), req.Link)
	switch {
	case err == nil:
	case errors.Is(err, upload.ErrInvalidLink):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(upload.ErrInvalidLink.Error()))
		return
	case errors.Is(err, upload.ErrUnsupportedType):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(upload.ErrUnsupportedType.Error()))
		return
	case errors.Is(err, upload.ErrTooLarge):
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error("file too large"))
		return
	case errors.Is(err, upload.ErrDownloadFailed):
		log.Warn("failed to download photo", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not download photo"))
		return
	default:
		log.Error("failed to save photo", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save photo"))
		return
	}

	log.Info("photo uploaded by link", slog.String("name", name))
	render.JSON(w, r, name)
}
