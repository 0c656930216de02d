package client

import (
	"time"

	"biosen/internal/domain"
)

type ClientDTO struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shop_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClientDTO(c domain.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID,
		ShopID:    c.ShopID,
		FullName:  c.FullName,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID   int64   `json:"shop_id"`
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Address  *string `json:"address"`
}

type UpdateRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}
