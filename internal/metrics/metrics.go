// Package metrics собирает метрики Prometheus и отдаёт их на /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder — интерфейс записи метрик для middleware и обработчиков.
type Recorder interface {
	RecordAuth(event string, success bool)
	RecordAuthRejection(reason string)
	RecordBookingCreated()
	RecordBookingEventConsumed()
}

// Причины отказа в аутентификации.
const (
	RejectMissingToken = "missing_token"
	RejectInvalidToken = "invalid_token"
)

// Collector — реализация Recorder поверх Prometheus.
type Collector struct {
	authAttempts    *prometheus.CounterVec
	authRejections  *prometheus.CounterVec
	bookingsCreated prometheus.Counter
	eventsConsumed  prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airbnb_auth_attempts_total",
			Help: "Register and login attempts by outcome",
		}, []string{"event", "success"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airbnb_auth_rejections_total",
			Help: "Requests rejected by the session middleware",
		}, []string{"reason"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airbnb_bookings_created_total",
			Help: "Bookings created",
		}),
		eventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airbnb_booking_events_consumed_total",
			Help: "booking.created events read back from the broker",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airbnb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.authRejections,
		c.bookingsCreated,
		c.eventsConsumed,
		c.requestDuration,
	)
	return c
}

func (c *Collector) RecordAuth(event string, success bool) {
	c.authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

func (c *Collector) RecordBookingEventConsumed() {
	c.eventsConsumed.Inc()
}

// Middleware измеряет длительность запросов. Маршрут берётся из шаблона chi,
// чтобы идентификаторы в пути не раздували число рядов.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler возвращает обработчик для сбора метрик Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop ничего не записывает. Используется в тестах.
type Nop struct{}

func (Nop) RecordAuth(string, bool)     {}
func (Nop) RecordAuthRejection(string)  {}
func (Nop) RecordBookingCreated()       {}
func (Nop) RecordBookingEventConsumed() {}
