package category

import (
	"time"

	"biosen/internal/domain"
)

type CategoryDTO struct {
	ID          int64     `json:"id"`
	ShopID      int64     `json:"shop_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		ShopID:      c.ShopID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID      int64   `json:"shop_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}
