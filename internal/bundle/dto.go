package bundle

import (
	"time"

	"biosen/internal/domain"
)

type BundleProductDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
}

type BundleDTO struct {
	ID          int64              `json:"id"`
	ShopID      int64              `json:"shop_id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Active      bool               `json:"active"`
	Products    []BundleProductDTO `json:"products"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func NewBundleDTO(b domain.Bundle, names map[int64]string) BundleDTO {
	products := make([]BundleProductDTO, 0, len(b.Products))
	for _, p := range b.Products {
		products = append(products, BundleProductDTO{
			ProductID: p.ProductID,
			Name:      names[p.ProductID],
			Quantity:  p.Quantity,
		})
	}
	return BundleDTO{
		ID:          b.ID,
		ShopID:      b.ShopID,
		Name:        b.Name,
		Description: b.Description,
		Active:      b.Active,
		Products:    products,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type ProductEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateRequest struct {
	ShopID      int64          `json:"shop_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Products    []ProductEntry `json:"products"`
}

type UpdateRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Active      *bool          `json:"active"`
	Products    []ProductEntry `json:"products"`
}
