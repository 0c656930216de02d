package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"biosen/internal/domain"
)

type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	ShopID     int64         `json:"shop_id"`
	ClientID   *int64        `json:"client_id"`
	EmployeeID int64         `json:"employee_id"`
	DriverID   *int64        `json:"driver_id"`
	Type       string        `json:"type"`
	OrderDate  string        `json:"order_date"`
	Notes      *string       `json:"notes"`
	Lines      []LineRequest `json:"lines"`
}

type UpdateOrderRequest struct {
	ClientID   *int64        `json:"client_id"`
	EmployeeID *int64        `json:"employee_id"`
	DriverID   *int64        `json:"driver_id"`
	Type       *string       `json:"type"`
	OrderDate  *string       `json:"order_date"`
	Notes      *string       `json:"notes"`
	Lines      []LineRequest `json:"lines"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type OrderLineDTO struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderDTO struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	ShopID       int64           `json:"shop_id"`
	ClientID     *int64          `json:"client_id"`
	ClientName   *string         `json:"client_name,omitempty"`
	EmployeeID   int64           `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	DriverID     *int64          `json:"driver_id"`
	DriverName   *string         `json:"driver_name,omitempty"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	OrderDate    string          `json:"order_date"`
	ValidatedAt  *time.Time      `json:"validated_at"`
	CancelledAt  *time.Time      `json:"cancelled_at"`
	CancelReason *string         `json:"cancel_reason"`
	CancelledBy  *int64          `json:"cancelled_by"`
	Notes        *string         `json:"notes"`
	Lines        []OrderLineDTO  `json:"lines,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderNames carries the joined display names for an order listing row.
type OrderNames struct {
	Client   *string
	Employee string
	Driver   *string
	Products map[int64]string
}

func NewOrderDTO(o domain.Order, names OrderNames) OrderDTO {
	d := OrderDTO{
		ID:           o.ID,
		Number:       o.Number,
		ShopID:       o.ShopID,
		ClientID:     o.ClientID,
		ClientName:   names.Client,
		EmployeeID:   o.EmployeeID,
		EmployeeName: names.Employee,
		DriverID:     o.DriverID,
		DriverName:   names.Driver,
		Type:         o.Type,
		Status:       o.Status,
		Total:        o.Total,
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		ValidatedAt:  o.ValidatedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CancelledBy:  o.CancelledBy,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, line := range o.Lines {
		d.Lines = append(d.Lines, OrderLineDTO{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: names.Products[line.ProductID],
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return d
}

// DaySummary aggregates one day of orders for the history listing.
type DaySummary struct {
	Date           string          `json:"date"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	ValidatedTotal decimal.Decimal `json:"validated_total"`
	OpenCount      int             `json:"open_count"`
	CancelledCount int             `json:"cancelled_count"`
}

// PrintPayload is returned by validation so the caller can print the
// receipt without a second round trip.
type PrintPayload struct {
	InvoiceNumber string          `json:"invoice_number"`
	OrderNumber   string          `json:"order_number"`
	IssuedAt      time.Time       `json:"issued_at"`
	ShopName      string          `json:"shop_name"`
	ClientName    *string         `json:"client_name"`
	Lines         []OrderLineDTO  `json:"lines"`
	Total         decimal.Decimal `json:"total"`
}

type InvoiceDTO struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Number    string          `json:"number"`
	IssuedAt  time.Time       `json:"issued_at"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewInvoiceDTO(i domain.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:        i.ID,
		OrderID:   i.OrderID,
		Number:    i.Number,
		IssuedAt:  i.IssuedAt,
		Total:     i.Total,
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
