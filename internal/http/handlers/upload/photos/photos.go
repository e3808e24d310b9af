// Package photos принимает фотографии из multipart-формы (поле photos).
package photos

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/services/upload"
)

// FormField — имя поля формы с файлами.
const FormField = "photos"

const maxMemory = 32 << 20

type Uploader interface {
	SaveFiles(files []*multipart.FileHeader) ([]string, error)
}

type Handler struct {
	log      *slog.Logger
	uploader Uploader
}

func New(log *slog.Logger, uploader Uploader) *Handler {
	return &Handler{log: log, uploader: uploader}
}

// ServeHTTP godoc
// @Summary Загрузить фото
// @Tags Uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param photos formData file true "Файлы изображений"
// @Success 200 {array} string "Имена файлов"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Router /upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.photos"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		log.Info("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	names, err := h.uploader.SaveFiles(r.MultipartForm.File[FormField])
	if err != nil {
		for _, target := range []error{upload.ErrNoFiles, upload.ErrTooManyFiles, upload.ErrUnsupportedType} {
			if errors.Is(err, target) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(target.Error()))
				return
			}
		}
	}
	switch {
	case err == nil:
	case errors.Is(err, upload.ErrTooLarge):
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error("file too large"))
		return
	default:
		log.Error("failed to save photos", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save photos"))
		return
	}

	log.Info("photos uploaded", slog.Int("count", len(names)))
	render.JSON(w, r, names)
}
