package user

import (
	"time"

	"biosen/internal/domain"
)

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ShopID    *int64    `json:"shop_id"`
	ShopName  *string   `json:"shop_name,omitempty"`
	Photo     *string   `json:"photo"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserDTO(u domain.User, shopName *string) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ShopID:    u.ShopID,
		ShopName:  shopName,
		Photo:     u.Photo,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	ShopID   *int64 `json:"shop_id"`
}

type UpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	ShopID   *int64  `json:"shop_id"`
	Active   *bool   `json:"active"`
}

type ChangeRoleRequest struct {
	Role   string `json:"role"`
	ShopID *int64 `json:"shop_id"`
}
