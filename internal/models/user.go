// Package models содержит доменные структуры маркетплейса: пользователя,
// идентичность сессии, объект размещения (place) и бронирование.
// Структуры используются в бизнес‑логике, хранилище и при сериализации ответов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Хэш пароля никогда не сериализуется в ответ клиенту.
type User struct {
	ID           string    `json:"_id"`   // Уникальный идентификатор пользователя
	Name         string    `json:"name"`  // Отображаемое имя
	Email        string    `json:"email"` // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`     // bcrypt‑хэш пароля
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity — проверенная личность вызывающего, извлекаемая из сессионного токена.
// Неизменяема после выпуска токена.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Anonymous сообщает, что идентичность не установлена.
func (i Identity) Anonymous() bool {
	return i.ID == ""
}

// Identity возвращает идентичность пользователя для выпуска токена.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

// Profile — публичные данные текущего пользователя для GET /profile.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
