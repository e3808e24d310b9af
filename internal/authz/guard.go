// Package authz принимает решения о доступе к ресурсам по проверенной идентичности.
//
// Функции пакета чистые: они не обращаются к хранилищу и не имеют состояния.
// Анонимная идентичность никогда не получает доступ; до этого пакета её
// отсекает middleware аутентификации.
package authz

import "github.com/Sunny17082/Airbnb/internal/models"

// CanCreatePlace — любой зарегистрированный пользователь может создать объект.
func CanCreatePlace(identity models.Identity) bool {
	return !identity.Anonymous()
}

// CanMutatePlace разрешает изменение только владельцу объекта.
func CanMutatePlace(identity models.Identity, place *models.Place) bool {
	if identity.Anonymous() || place == nil || place.Owner == "" {
		return false
	}
	return place.Owner == identity.ID
}

// CanCreateBooking — любой зарегистрированный пользователь может бронировать.
func CanCreateBooking(identity models.Identity) bool {
	return !identity.Anonymous()
}

// ScopeBookingQuery возвращает фильтр, которым обязана быть ограничена
// любая выборка бронирований: только бронирования самого пользователя.
func ScopeBookingQuery(identity models.Identity) models.BookingFilter {
	return models.BookingFilter{UserID: identity.ID}
}
