package employee

import (
	"time"

	"biosen/internal/domain"
)

type EmployeeDTO struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shop_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	RoleTitle *string   `json:"role_title"`
	Photo     *string   `json:"photo"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewEmployeeDTO(e domain.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.ID,
		ShopID:    e.ShopID,
		Name:      e.Name,
		Phone:     e.Phone,
		RoleTitle: e.RoleTitle,
		Photo:     e.Photo,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID    int64   `json:"shop_id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	RoleTitle *string `json:"role_title"`
}

type UpdateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	RoleTitle *string `json:"role_title"`
	Active    *bool   `json:"active"`
}
