// Package services содержит логику регистрации, входа и профиля пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sunny17082/Airbnb/internal/lib/password"
	"github.com/Sunny17082/Airbnb/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя; повтор email даёт models.ErrDuplicateEmail.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID или models.ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// PasswordHasher хэширует пароль и сверяет его с хэшем.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer выпускает сессионный токен для идентичности.
type TokenIssuer interface {
	Issue(identity models.Identity) (string, error)
}

// AuthService отвечает за регистрацию, вход и профиль.
type AuthService struct {
	users    UserRepository
	hasher   PasswordHasher
	sessions TokenIssuer
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, hasher PasswordHasher, sessions TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя с захэшированным паролем.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	const op = "services.Register"
	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hashed,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login проверяет пароль и выпускает токен.
// Неизвестный email даёт models.ErrUserNotFound, неверный пароль — models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.Login"
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.sessions.Issue(user.Identity())
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Profile возвращает профиль текущего пользователя.
// Для анонимного запроса и удалённого пользователя результат (nil, nil).
func (s *AuthService) Profile(ctx context.Context, identity models.Identity) (*models.Profile, error) {
	const op = "services.Profile"
	if identity.Anonymous() {
		return nil, nil
	}
	user, err := s.users.GetUser(ctx, identity.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Profile{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}
