// Package middlewarectx содержит HTTP middleware аутентификации по сессионной
// cookie и CORS.
//
// RequireIdentity пропускает запрос дальше только с проверенным токеном и
// кладёт идентичность в контекст. OptionalIdentity делает то же, но запрос
// без cookie считает анонимным. Непроверяемый токен в обоих случаях даёт
// HTTP 401, до обращения к хранилищу.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sunny17082/Airbnb/internal/http/response"
	"github.com/Sunny17082/Airbnb/internal/lib/sl"
	"github.com/Sunny17082/Airbnb/internal/metrics"
	"github.com/Sunny17082/Airbnb/internal/models"
	"github.com/Sunny17082/Airbnb/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey — ключ идентичности вызывающего в контексте.
const IdentityKey Key = "identity"

// Verifier проверяет сессионный токен.
type Verifier interface {
	Verify(token string) (models.Identity, error)
}

// WithIdentity возвращает контекст с идентичностью.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom достаёт идентичность из контекста. Для анонимного запроса
// возвращается пустая Identity.
func IdentityFrom(ctx context.Context) models.Identity {
	identity, _ := ctx.Value(IdentityKey).(models.Identity)
	return identity
}

// RequireIdentity возвращает middleware, который требует валидную сессию.
func RequireIdentity(sessions Verifier, rec metrics.Recorder, log *slog.Logger) func(http.Handler) http.Handler {
	return identityMiddleware(sessions, rec, log, true)
}

// OptionalIdentity возвращает middleware, для которого отсутствие cookie не ошибка.
func OptionalIdentity(sessions Verifier, rec metrics.Recorder, log *slog.Logger) func(http.Handler) http.Handler {
	return identityMiddleware(sessions, rec, log, false)
}

func identityMiddleware(sessions Verifier, rec metrics.Recorder, log *slog.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Identity"

			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := session.FromRequest(r)
			if !ok {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				log.Info("request without session")
				rec.RecordAuthRejection(metrics.RejectMissingToken)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthenticated"))
				return
			}

			identity, err := sessions.Verify(token)
			if err != nil {
				log.Warn("invalid session token", sl.Err(err))
				rec.RecordAuthRejection(metrics.RejectInvalidToken)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
