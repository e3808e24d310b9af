package airbnb

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Sunny17082/Airbnb/internal/http/handlers/auth/login"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/auth/logout"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/auth/profile"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/auth/register"
	bookingcreate "github.com/Sunny17082/Airbnb/internal/http/handlers/booking/create"
	bookinglist "github.com/Sunny17082/Airbnb/internal/http/handlers/booking/list"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/health"
	placecreate "github.com/Sunny17082/Airbnb/internal/http/handlers/place/create"
	placelist "github.com/Sunny17082/Airbnb/internal/http/handlers/place/list"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/place/owned"
	placeread "github.com/Sunny17082/Airbnb/internal/http/handlers/place/read"
	placeupdate "github.com/Sunny17082/Airbnb/internal/http/handlers/place/update"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/upload/bylink"
	"github.com/Sunny17082/Airbnb/internal/http/handlers/upload/photos"
	"github.com/Sunny17082/Airbnb/internal/http/middlewarectx"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/session"
)

const healthTimeout = 2 * time.Second

type AuthService interface {
	register.Service
	login.Service
	profile.Service
}

type PlaceService interface {
	placecreate.Service
	placeupdate.Service
	owned.Service
	placeread.Service
	placelist.Service
}

type BookingService interface {
	bookingcreate.Service
	bookinglist.Service
}

type Uploader interface {
	bylink.Uploader
	photos.Uploader
}

// Deps — всё, что нужно маршрутам.
type Deps struct {
	Auth       AuthService
	Places     PlaceService
	Bookings   BookingService
	Uploader   Uploader
	Sessions   *session.Manager
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer
	Health     map[string]health.Pinger
	UploadsDir string
	CORSOrigin string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, log *slog.Logger, d Deps) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(d.CORSOrigin),
		d.Metrics.Middleware,
	)

	// Открытые конечные точки
	r.Post("/register", register.New(log, d.Auth, d.Metrics).ServeHTTP)
	r.Post("/login", login.New(log, d.Auth, d.Sessions, d.Metrics).ServeHTTP)
	r.Post("/logout", logout.New(log, d.Sessions).ServeHTTP)
	r.Get("/places", placelist.New(log, d.Places).ServeHTTP)
	read := placeread.New(log, d.Places)
	r.Get("/places/{id}", read.ServeHTTP)
	r.Get("/place/{id}", read.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.OptionalIdentity(d.Sessions, d.Metrics, log))
		r.Get("/profile", profile.New(log, d.Auth).ServeHTTP)
	})

	// Группа с обязательной сессией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireIdentity(d.Sessions, d.Metrics, log))
		r.Post("/places", placecreate.New(log, d.Places).ServeHTTP)
		r.Put("/places", placeupdate.New(log, d.Places).ServeHTTP)
		r.Get("/user-places", owned.New(log, d.Places).ServeHTTP)
		r.Post("/bookings", bookingcreate.New(log, d.Bookings, d.Metrics).ServeHTTP)
		r.Get("/bookings", bookinglist.New(log, d.Bookings).ServeHTTP)
		r.Post("/upload-by-link", bylink.New(log, d.Uploader).ServeHTTP)
		r.Post("/upload", photos.New(log, d.Uploader).ServeHTTP)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir))))
	r.Get("/health", health.New(log, healthTimeout, d.Health).ServeHTTP)
	r.Handle("/metrics", metrics.Handler(d.Gatherer))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
