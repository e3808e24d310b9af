package models

import (
	"errors"
	"fmt"
)

// Ошибки домена. Сервисы возвращают их обёрнутыми, обработчики сопоставляют
// через errors.Is со статусами HTTP.
var (
	// ErrUnauthenticated — запрос без действительного токена.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken — токен присутствует, но не проходит проверку.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigning — токен не удалось подписать (нет секрета).
	ErrSigning = errors.New("token signing failed")
	// ErrForbidden — пользователь не владеет ресурсом.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound — пользователь с таким email или id отсутствует.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrPlaceNotFound — объект размещения отсутствует.
	ErrPlaceNotFound = fmt.Errorf("place %w", ErrNotFound)
	// ErrDuplicateEmail — email уже зарегистрирован.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials — пароль не совпадает.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidBooking — хранилище отвергло бронирование.
	ErrInvalidBooking = errors.New("invalid booking")
	// ErrInvalidPlace — хранилище отвергло объект размещения.
	ErrInvalidPlace = errors.New("invalid place")
)
