// Package upload сохраняет фотографии объектов в локальный каталог
// и возвращает имена файлов, по которым они отдаются из /uploads/.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sunny17082/Airbnb/internal/lib/sl"
)

var (
	ErrInvalidLink     = errors.New("invalid link")
	ErrDownloadFailed  = errors.New("download failed")
	ErrTooManyFiles    = errors.New("too many files")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoFiles         = errors.New("no files")
)

var allowedExt = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Config задаёт каталог и ограничения загрузки.
type Config struct {
	Dir             string
	MaxFiles        int
	MaxSize         int64
	DownloadTimeout time.Duration
}

// Uploader сохраняет файлы в Config.Dir.
type Uploader struct {
	cfg        Config
	httpClient *http.Client
	checkHost  func(host string) error
	log        *slog.Logger
}

// New создаёт каталог загрузок, если его нет, и возвращает Uploader.
func New(cfg Config, log *slog.Logger) (*Uploader, error) {
	const op = "upload.New"
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Uploader{
		cfg:        cfg,
		httpClient: newSafeClient(cfg.DownloadTimeout),
		checkHost:  checkHost,
		log:        log,
	}, nil
}

// Dir возвращает каталог, из которого раздаются файлы.
func (u *Uploader) Dir() string {
	return u.cfg.Dir
}

// SaveFromLink скачивает изображение по ссылке и возвращает имя сохранённого файла.
func (u *Uploader) SaveFromLink(ctx context.Context, link string) (string, error) {
	const op = "upload.SaveFromLink"

	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidLink)
	}
	if err := u.checkHost(parsed.Hostname()); err != nil {
		return "", fmt.Errorf("%s: %w: %s", op, err, parsed.Hostname())
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if ext == "" {
		ext = ".jpg"
	}
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%s: %w: %s", op, ErrUnsupportedType, ext)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidLink)
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w: unexpected status %s", op, ErrDownloadFailed, resp.Status)
	}

	name := "photo" + uuid.NewString() + ext
	if err := u.write(name, resp.Body); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	u.log.Debug("saved photo from link", slog.String("name", name))
	return name, nil
}

// SaveFiles сохраняет загруженные через multipart файлы, не больше Config.MaxFiles.
// При ошибке уже записанные файлы удаляются.
func (u *Uploader) SaveFiles(files []*multipart.FileHeader) ([]string, error) {
	const op = "upload.SaveFiles"
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoFiles)
	}
	if len(files) > u.cfg.MaxFiles {
		return nil, fmt.Errorf("%s: %w: max %d", op, ErrTooManyFiles, u.cfg.MaxFiles)
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := u.saveFile(fh)
		if err != nil {
			u.remove(names)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (u *Uploader) saveFile(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := uuid.NewString() + ext
	if err := u.write(name, f); err != nil {
		return "", err
	}
	return name, nil
}

// write копирует не больше MaxSize байт; файл сверх лимита удаляется.
func (u *Uploader) write(name string, r io.Reader) error {
	full := filepath.Join(u.cfg.Dir, name)
	out, err := os.Create(full)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, io.LimitReader(r, u.cfg.MaxSize+1))
	closeErr := out.Close()
	switch {
	case err != nil:
	case closeErr != nil:
		err = closeErr
	case n > u.cfg.MaxSize:
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(full)
		return err
	}
	return nil
}

func (u *Uploader) remove(names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(u.cfg.Dir, name)); err != nil {
			u.log.Warn("failed to remove partial upload", slog.String("name", name), sl.Err(err))
		}
	}
}
