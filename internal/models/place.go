package models

import "time"

// Perk — тег удобства объекта размещения.
type Perk string

// Допустимые удобства.
const (
	PerkWifi     Perk = "wifi"
	PerkParking  Perk = "parking"
	PerkTV       Perk = "tv"
	PerkRadio    Perk = "radio"
	PerkPets     Perk = "pets"
	PerkEntrance Perk = "entrance"
)

// Place — объект размещения. Owner задаётся при создании и дальше не меняется.
type Place struct {
	ID          string    `json:"_id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	Photos      []string  `json:"photos"`
	Description string    `json:"description"`
	Perks       []Perk    `json:"perks"`
	ExtraInfo   string    `json:"extraInfo"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	MaxGuests   int       `json:"maxGuests"`
	Price       int       `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaceInput — поля объекта, которые клиент может задать при создании и изменении.
// Фотографии приходят в поле addedPhotos, как и в исходном клиенте.
type PlaceInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Address     string   `json:"address" validate:"required,max=500"`
	AddedPhotos []string `json:"addedPhotos" validate:"max=50"`
	Description string   `json:"description" validate:"max=5000"`
	Perks       []Perk   `json:"perks" validate:"dive,oneof=wifi parking tv radio pets entrance"`
	ExtraInfo   string   `json:"extraInfo" validate:"max=5000"`
	CheckIn     string   `json:"checkIn" validate:"max=20"`
	CheckOut    string   `json:"checkOut" validate:"max=20"`
	MaxGuests   int      `json:"maxGuests" validate:"gte=0"`
	Price       int      `json:"price" validate:"gte=0"`
}

// Apply переносит поля запроса в документ, не затрагивая ID и Owner.
// Повторяющиеся удобства схлопываются: perks — множество.
func (in PlaceInput) Apply(p *Place) {
	p.Title = in.Title
	p.Address = in.Address
	p.Photos = append([]string{}, in.AddedPhotos...)
	p.Description = in.Description
	p.Perks = UniquePerks(in.Perks)
	p.ExtraInfo = in.ExtraInfo
	p.CheckIn = in.CheckIn
	p.CheckOut = in.CheckOut
	p.MaxGuests = in.MaxGuests
	p.Price = in.Price
}

// UniquePerks убирает дубликаты, сохраняя порядок первого появления.
func UniquePerks(perks []Perk) []Perk {
	seen := make(map[Perk]struct{}, len(perks))
	out := make([]Perk, 0, len(perks))
	for _, p := range perks {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
