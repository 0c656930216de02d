package product

import (
	"time"

	"github.com/shopspring/decimal"

	"biosen/internal/domain"
)

type ProductDTO struct {
	ID                int64           `json:"id"`
	ShopID            int64           `json:"shop_id"`
	CategoryID        int64           `json:"category_id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	Image             *string         `json:"image"`
	Active            bool            `json:"active"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID,
		ShopID:            p.ShopID,
		CategoryID:        p.CategoryID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Image:             p.Image,
		Active:            p.Active,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID            int64   `json:"shop_id"`
	CategoryID        int64   `json:"category_id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	Price             string  `json:"price"`
	Stock             int     `json:"stock"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

type UpdateRequest struct {
	CategoryID        *int64  `json:"category_id"`
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Price             *string `json:"price"`
	Stock             *int    `json:"stock"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
	Active            *bool   `json:"active"`
}
