package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64
	ShopID            int64
	CategoryID        int64
	Name              string
	Description       *string
	Price             decimal.Decimal
	Stock             int
	LowStockThreshold *int
	Image             *string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock reports whether the product sits at or under its alert
// threshold. Products without a threshold never alert.
func (p Product) IsLowStock() bool {
	if p.LowStockThreshold == nil {
		return false
	}
	return p.Stock <= *p.LowStockThreshold
}
