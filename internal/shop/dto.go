package shop

import (
	"time"

	"biosen/internal/domain"
)

type ShopDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Logo      *string   `json:"logo"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewShopDTO(s domain.Shop) ShopDTO {
	return ShopDTO{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Logo:      s.Logo,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type ShopDetailDTO struct {
	ShopDTO
	UserCount    int `json:"user_count"`
	ProductCount int `json:"product_count"`
	OrderCount   int `json:"order_count"`
}

type CreateShopRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type UpdateShopRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}
