package driver

import (
	"time"

	"biosen/internal/domain"
)

type DriverDTO struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shop_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Available bool      `json:"available"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDriverDTO(d domain.Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID,
		ShopID:    d.ShopID,
		Name:      d.Name,
		Phone:     d.Phone,
		Available: d.Available,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID int64   `json:"shop_id"`
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
}

type UpdateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Available *bool   `json:"available"`
	Active    *bool   `json:"active"`
}
