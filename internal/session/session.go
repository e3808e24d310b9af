// Package session выпускает и проверяет подписанные сессионные токены
// и переносит их между сервером и клиентом через cookie.
//
// Состояние сессии целиком хранится в токене: сервер не держит
// таблицу сессий, поэтому проверка не требует обращения к хранилищу.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Sunny17082/Airbnb/internal/lib/jwt"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// CookieName — имя cookie с сессионным токеном.
const CookieName = "token"

// Config задаёт параметры менеджера сессий. Создаётся при старте
// приложения из конфигурации и передаётся в New.
type Config struct {
	SecretKey    string
	TokenTTL     time.Duration // 0 — токен без срока действия
	CookieSecure bool
}

// Manager выпускает и проверяет токены.
type Manager struct {
	maker  jwt.Maker
	secure bool
}

// New создаёт Manager с ключом подписи из cfg.
func New(cfg Config) *Manager {
	return &Manager{
		maker:  jwt.NewJWTMaker(cfg.SecretKey, cfg.TokenTTL),
		secure: cfg.CookieSecure,
	}
}

// NewWithMaker создаёт Manager поверх готового jwt.Maker.
func NewWithMaker(maker jwt.Maker, cookieSecure bool) *Manager {
	return &Manager{maker: maker, secure: cookieSecure}
}

// Issue подписывает токен для identity.
// Единственная ошибка — models.ErrSigning.
func (m *Manager) Issue(identity models.Identity) (string, error) {
	const op = "session.Issue"
	if identity.Anonymous() {
		return "", fmt.Errorf("%s: %w: empty identity", op, models.ErrSigning)
	}
	token, err := m.maker.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, models.ErrSigning, err)
	}
	return token, nil
}

// Verify проверяет токен и возвращает идентичность.
// Любой сбой проверки сводится к models.ErrInvalidToken.
func (m *Manager) Verify(token string) (models.Identity, error) {
	const op = "session.Verify"
	if token == "" {
		return models.Identity{}, fmt.Errorf("%s: %w: empty token", op, models.ErrInvalidToken)
	}
	claims, err := m.maker.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}
	if claims == nil || claims.UserID == "" {
		return models.Identity{}, fmt.Errorf("%s: %w: no identity in claims", op, models.ErrInvalidToken)
	}
	return models.Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// FromRequest достаёт токен из cookie. Отсутствие cookie или пустое
// значение (после logout) — это анонимный запрос, а не ошибка.
func FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetCookie записывает токен в сессионную cookie: без Max-Age и Expires,
// срок жизни определяет хранилище cookie клиента.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(token))
}

// ClearCookie перезаписывает cookie пустым значением.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(""))
}

func (m *Manager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
