package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusActive    = "active"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice rows are permanent audit records. Cancelling an order leaves
// its invoice untouched; nothing ever deletes or rewrites an invoice.
type Invoice struct {
	ID        int64
	OrderID   int64
	Number    string
	IssuedAt  time.Time
	Total     decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
