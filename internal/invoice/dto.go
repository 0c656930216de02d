package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceDTO struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Number      string          `json:"number"`
	IssuedAt    time.Time       `json:"issued_at"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	ShopID      int64           `json:"shop_id"`
	ClientName  *string         `json:"client_name"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewInvoiceDTO(r Row) InvoiceDTO {
	return InvoiceDTO{
		ID:          r.Invoice.ID,
		OrderID:     r.Invoice.OrderID,
		OrderNumber: r.OrderNumber,
		Number:      r.Invoice.Number,
		IssuedAt:    r.Invoice.IssuedAt,
		Total:       r.Invoice.Total,
		Status:      r.Invoice.Status,
		ShopID:      r.ShopID,
		ClientName:  r.ClientName,
		CreatedAt:   r.Invoice.CreatedAt,
		UpdatedAt:   r.Invoice.UpdatedAt,
	}
}
